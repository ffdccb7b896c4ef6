package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workhub/internal/realtime"
)

type BoardStreamHandler struct {
	hub *realtime.BoardHub
}

func NewBoardStreamHandler(hub *realtime.BoardHub) *BoardStreamHandler {
	return &BoardStreamHandler{hub: hub}
}

// GET /ws/board: the connection stays open until the client leaves and
// receives a BoardEvent whenever one of the caller's tasks changes.
func (h *BoardStreamHandler) Stream(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		log.Printf("[ws][upgrade][err] user=%d: %v", userID, err)
		// after a hijack the response belongs to the raw connection
		if errors.Is(err, realtime.ErrBadHandshake) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade required"})
		}
		return
	}
	h.hub.Register(userID, conn)
	log.Printf("[ws][open] user=%d conns=%d", userID, h.hub.Connections(userID))

	err = conn.Drain()
	h.hub.Unregister(userID, conn)
	log.Printf("[ws][close] user=%d: %v", userID, err)
}
