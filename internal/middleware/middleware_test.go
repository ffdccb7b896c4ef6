package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"workhub/internal/authz"
)

var testKey = []byte("middleware-test-key")

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func claimsFor(userID int64, roleID int, exp time.Time) Claims {
	return Claims{
		UserID:           userID,
		RoleID:           roleID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}
}

func protected() *gin.Engine {
	r := gin.New()
	g := r.Group("/", AuthMiddleware(testKey), ReadOnlyGuard())
	g.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetInt64(CtxUserID), "role": c.GetInt(CtxRoleID)})
	})
	g.POST("/tasks", func(c *gin.Context) { c.Status(http.StatusCreated) })
	g.POST("/admin/digest", RequireRoles(authz.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func call(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := protected()
	now := time.Now()

	valid := sign(t, jwt.SigningMethodHS256, testKey, claimsFor(3, authz.RoleMember, now.Add(time.Hour)))
	if w := call(r, http.MethodGet, "/whoami", valid); w.Code != http.StatusOK {
		t.Fatalf("valid token = %d", w.Code)
	}

	cases := map[string]string{
		"missing":   "",
		"garbage":   "not-a-jwt",
		"expired":   sign(t, jwt.SigningMethodHS256, testKey, claimsFor(3, authz.RoleMember, now.Add(-time.Hour))),
		"wrong key": sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(3, authz.RoleMember, now.Add(time.Hour))),
		"no user":   sign(t, jwt.SigningMethodHS256, testKey, claimsFor(0, authz.RoleMember, now.Add(time.Hour))),
		"no exp":    sign(t, jwt.SigningMethodHS256, testKey, Claims{UserID: 3}),
		"alg none":  sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(3, authz.RoleAdmin, now.Add(time.Hour))),
	}
	for name, tok := range cases {
		if w := call(r, http.MethodGet, "/whoami", tok); w.Code != http.StatusUnauthorized {
			t.Errorf("%s token = %d, want 401", name, w.Code)
		}
	}

	// within leeway
	late := sign(t, jwt.SigningMethodHS256, testKey, claimsFor(3, authz.RoleMember, now.Add(-time.Minute)))
	if w := call(r, http.MethodGet, "/whoami", late); w.Code != http.StatusOK {
		t.Fatalf("token inside leeway = %d", w.Code)
	}
}

func TestReadOnlyGuardAndRoles(t *testing.T) {
	r := protected()
	exp := time.Now().Add(time.Hour)
	viewer := sign(t, jwt.SigningMethodHS256, testKey, claimsFor(4, authz.RoleViewer, exp))
	member := sign(t, jwt.SigningMethodHS256, testKey, claimsFor(5, authz.RoleMember, exp))
	admin := sign(t, jwt.SigningMethodHS256, testKey, claimsFor(6, authz.RoleAdmin, exp))

	if w := call(r, http.MethodGet, "/whoami", viewer); w.Code != http.StatusOK {
		t.Fatalf("viewer GET = %d", w.Code)
	}
	if w := call(r, http.MethodPost, "/tasks", viewer); w.Code != http.StatusForbidden {
		t.Fatalf("viewer POST = %d, want 403", w.Code)
	}
	if w := call(r, http.MethodPost, "/tasks", member); w.Code != http.StatusCreated {
		t.Fatalf("member POST = %d", w.Code)
	}
	if w := call(r, http.MethodPost, "/admin/digest", member); w.Code != http.StatusForbidden {
		t.Fatalf("member admin route = %d, want 403", w.Code)
	}
	if w := call(r, http.MethodPost, "/admin/digest", admin); w.Code != http.StatusOK {
		t.Fatalf("admin route = %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestID)) })

	w := call(r, http.MethodGet, "/", "")
	got := w.Header().Get(HeaderRequestID)
	if _, err := uuid.Parse(got); err != nil || w.Body.String() != got {
		t.Fatalf("generated id = %q body=%q", got, w.Body.String())
	}

	keep := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, keep)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != keep {
		t.Fatalf("incoming id replaced: %q", w.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) == "<script>" {
		t.Fatal("malformed incoming id kept")
	}
}
