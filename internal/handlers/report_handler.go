package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/services"
)

type workspaceReporter interface {
	WorkspaceReport(ctx context.Context, userID, workspaceID int64, now time.Time, w io.Writer) error
}

type ReportHandler struct {
	service workspaceReporter
	clock   Clock
}

func NewReportHandler(service workspaceReporter, clk Clock) *ReportHandler {
	return &ReportHandler{service: service, clock: clk}
}

// @Summary  Workspace PDF report
// @Tags     Reports
// @Produce  application/pdf
// @Security BearerAuth
// @Param    file  path  string  true  "Workspace ID followed by .pdf"
// @Success  200
// @Failure  403  {object}  map[string]string
// @Router   /reports/workspaces/{file} [get]
func (h *ReportHandler) WorkspacePDF(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	raw := strings.TrimSuffix(c.Param("file"), ".pdf")
	workspaceID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || workspaceID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id"})
		return
	}

	var buf bytes.Buffer
	if err := h.service.WorkspaceReport(c.Request.Context(), userID, workspaceID, h.clock.at(c), &buf); err != nil {
		respondError(c, "report", err)
		return
	}
	log.Printf("[report][pdf][ok] workspace=%d user=%d size=%d", workspaceID, userID, buf.Len())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="workspace-%d.pdf"`, workspaceID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

var _ workspaceReporter = (*services.ReportService)(nil)
