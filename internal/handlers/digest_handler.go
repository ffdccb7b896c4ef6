package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type digestRunner interface {
	SendOverdue(ctx context.Context, now time.Time) (int, error)
}

type DigestHandler struct {
	digest digestRunner
	clock  Clock
}

func NewDigestHandler(digest digestRunner, clk Clock) *DigestHandler {
	return &DigestHandler{digest: digest, clock: clk}
}

// @Summary  Send the overdue digest now
// @Tags     Admin
// @Produce  json
// @Security BearerAuth
// @Success  200  {object}  map[string]int
// @Router   /admin/digest [post]
func (h *DigestHandler) Run(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	sent, err := h.digest.SendOverdue(c.Request.Context(), h.clock.Now())
	if err != nil {
		respondError(c, "digest", err)
		return
	}
	log.Printf("[digest][manual][ok] by=%d sent=%d", userID, sent)
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
