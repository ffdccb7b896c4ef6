package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/models"
	"workhub/internal/services"
)

type AuthHandler struct {
	userService  services.UserService
	authService  services.AuthService
	resetService services.PasswordResetService
	now          func() time.Time
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, resetService services.PasswordResetService) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService, resetService: resetService, now: time.Now}
}

// @Summary      Sign in
// @Description  Checks the credentials and returns an access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	user, err := h.userService.Authenticate(c.Request.Context(), email, req.Password)
	if err != nil {
		respondError(c, "auth", err)
		return
	}

	token, exp, err := h.authService.IssueAccessToken(user, h.now())
	if err != nil {
		log.Printf("[auth][login] sign access token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	log.Printf("[auth][login] success userID=%d role=%d took=%s", user.ID, user.RoleID, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"tokens": gin.H{
			"access_token": token,
			"expires_at":   exp.UTC().Format(time.RFC3339),
		},
	})
}

// @Summary      Request a password reset code
// @Description  Always answers 202 so the existence of an account is not revealed
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body  models.ForgotPasswordRequest  true  "Account email"
// @Success      202   {object}  map[string]string
// @Router       /password/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.resetService.RequestReset(c.Request.Context(), req.Email, h.now()); err != nil {
		respondError(c, "password-reset", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "If the account exists, a reset code was sent"})
}

// @Summary  Set a new password with a reset code
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    body  body  models.ResetPasswordRequest  true  "Code and new password"
// @Success  200   {object}  map[string]string
// @Failure  400   {object}  map[string]string
// @Router   /password/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.resetService.ResetPassword(c.Request.Context(), req.Token, req.Password, h.now()); err != nil {
		respondError(c, "password-reset", err)
		return
	}
	log.Printf("[password-reset][ok]")
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
