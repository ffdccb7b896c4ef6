package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workhub/internal/models"
	"workhub/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary  Current user
// @Tags     Users
// @Produce  json
// @Security BearerAuth
// @Success  200  {object}  models.User
// @Router   /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary  Digest notification settings
// @Tags     Users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    prefs  body      models.NotificationPrefs  true  "Channels"
// @Success  200    {object}  models.User
// @Failure  400    {object}  map[string]string
// @Router   /me/notifications [put]
func (h *UserHandler) UpdateNotifications(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var prefs models.NotificationPrefs
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.service.UpdateNotifications(c.Request.Context(), userID, prefs)
	if err != nil {
		respondError(c, "user", err)
		return
	}
	log.Printf("[user][notifications][ok] userID=%d tg=%v email=%v", userID, prefs.NotifyTelegram, prefs.NotifyEmail)
	c.JSON(http.StatusOK, u)
}
