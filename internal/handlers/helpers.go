package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/middleware"
	"workhub/internal/planner"
	"workhub/internal/services"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getInt64FromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID int64, roleID int) {
	if id, ok := getInt64FromCtx(c, middleware.CtxUserID); ok {
		userID = id
	}
	if id, ok := getInt64FromCtx(c, middleware.CtxRoleID); ok {
		roleID = int(id)
	}
	return
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.CtxRequestID)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// Clock resolves the reference time of a request: the `now` query parameter
// when it parses, the server clock in loc otherwise.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc, now: time.Now}
}

// Now is the server clock in the configured zone.
func (k Clock) Now() time.Time {
	return k.now().In(k.loc)
}

func (k Clock) at(c *gin.Context) time.Time {
	if raw := c.Query("now"); raw != "" {
		if t := planner.ParseTimestamp(raw, k.loc); t != nil {
			return *t
		}
		log.Printf("[clock][warn] malformed now=%q rid=%s, using server clock", raw, requestID(c))
	}
	return k.Now()
}

// respondError maps service errors to HTTP codes.
func respondError(c *gin.Context, area string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, services.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrBadCredentials):
		status, msg = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrTimerRunning),
		errors.Is(err, services.ErrTimerStopped):
		status, msg = http.StatusConflict, err.Error()
	}
	if status == http.StatusInternalServerError {
		log.Printf("[%s][err] rid=%s %v", area, requestID(c), err)
	} else {
		log.Printf("[%s][fail] rid=%s status=%d %v", area, requestID(c), status, err)
	}
	c.JSON(status, gin.H{"error": msg})
}
