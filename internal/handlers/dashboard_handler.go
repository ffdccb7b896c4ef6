package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/models"
	"workhub/internal/planner"
	"workhub/internal/services"
)

type DashboardHandler struct {
	service services.DashboardService
	clock   Clock
}

func NewDashboardHandler(service services.DashboardService, clk Clock) *DashboardHandler {
	return &DashboardHandler{service: service, clock: clk}
}

// @Summary      Task board
// @Description  Buckets the caller's tasks into overdue, today, this_week, later and done.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        now  query     string  false  "Reference time (RFC3339)"
// @Success      200  {object}  planner.Buckets
// @Router       /dashboard/board [get]
func (h *DashboardHandler) Board(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	b, err := h.service.Board(c.Request.Context(), userID, h.clock.at(c))
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// @Summary  Calendar month
// @Tags     Dashboard
// @Produce  json
// @Security BearerAuth
// @Param    month  query  string  false  "YYYY-MM, defaults to the current month"
// @Success  200  {array}  planner.CalendarDay
// @Failure  400  {object}  map[string]string
// @Router   /dashboard/calendar [get]
func (h *DashboardHandler) Calendar(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	month := h.clock.at(c)
	if raw := c.Query("month"); raw != "" {
		m, err := time.ParseInLocation("2006-01", raw, h.clock.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		month = m
	}
	days, err := h.service.Calendar(c.Request.Context(), userID, month)
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// @Summary  Activity timeline
// @Tags     Dashboard
// @Produce  json
// @Security BearerAuth
// @Param    now  query  string  false  "Reference time (RFC3339)"
// @Success  200  {array}  planner.TimelineGroup
// @Router   /dashboard/timeline [get]
func (h *DashboardHandler) Timeline(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	groups, err := h.service.Timeline(c.Request.Context(), userID, h.clock.at(c))
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}
	if groups == nil {
		groups = []planner.TimelineGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary  Workspace statistics
// @Tags     Dashboard
// @Produce  json
// @Security BearerAuth
// @Success  200  {array}  models.WorkspaceStat
// @Router   /dashboard/workspaces [get]
func (h *DashboardHandler) WorkspaceStats(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	stats, err := h.service.WorkspaceStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}
	if stats == nil {
		stats = []models.WorkspaceStat{}
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary  Hub summary
// @Tags     Dashboard
// @Produce  json
// @Security BearerAuth
// @Param    now  query  string  false  "Reference time (RFC3339)"
// @Success  200  {object}  services.HubSummary
// @Router   /dashboard/hub [get]
func (h *DashboardHandler) Hub(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	sum, err := h.service.Hub(c.Request.Context(), userID, h.clock.at(c))
	if err != nil {
		respondError(c, "dashboard", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// previewTask is a task as an untrusted client sends it: timestamps are plain
// strings and parsed leniently.
type previewTask struct {
	ID        int64               `json:"id"`
	Title     string              `json:"title"`
	Status    models.TaskStatus   `json:"status"`
	Priority  models.TaskPriority `json:"priority"`
	DueDate   string              `json:"due_date"`
	UpdatedAt string              `json:"updated_at"`
}

type previewRequest struct {
	Now   string        `json:"now"`
	Tasks []previewTask `json:"tasks"`
}

// @Summary      Bucket preview
// @Description  Buckets the posted tasks without touching storage. Malformed dates count as absent.
// @Tags         Planner
// @Accept       json
// @Produce      json
// @Param        body  body      previewRequest  true  "Reference time and tasks"
// @Success      200   {object}  planner.Buckets
// @Failure      400   {object}  map[string]string
// @Router       /planner/buckets [post]
func (h *DashboardHandler) PreviewBuckets(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := h.clock.Now()
	if t := planner.ParseTimestamp(req.Now, h.clock.loc); t != nil {
		now = *t
	}

	tasks := make([]models.Task, 0, len(req.Tasks))
	skipped := 0
	for _, p := range req.Tasks {
		t := models.Task{
			ID:       p.ID,
			Title:    p.Title,
			Status:   p.Status,
			Priority: p.Priority,
			DueDate:  planner.ParseTimestamp(p.DueDate, h.clock.loc),
		}
		if p.DueDate != "" && t.DueDate == nil {
			skipped++
		}
		if u := planner.ParseTimestamp(p.UpdatedAt, h.clock.loc); u != nil {
			t.UpdatedAt = *u
		}
		tasks = append(tasks, t)
	}
	if skipped > 0 {
		log.Printf("[planner][preview][warn] rid=%s malformed due_date count=%d", requestID(c), skipped)
	}
	c.JSON(http.StatusOK, planner.BucketTasks(tasks, now))
}
