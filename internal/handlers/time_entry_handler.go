package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"workhub/internal/models"
	"workhub/internal/planner"
	"workhub/internal/services"
)

type TimeEntryHandler struct {
	service services.TimeEntryService
	clock   Clock
}

func NewTimeEntryHandler(service services.TimeEntryService, clk Clock) *TimeEntryHandler {
	return &TimeEntryHandler{service: service, clock: clk}
}

type startTimerRequest struct {
	TaskID      *int64 `json:"task_id"`
	Description string `json:"description"`
}

// @Summary  Start a timer
// @Tags     TimeEntries
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body  body      startTimerRequest  false  "Task and note"
// @Success  201   {object}  models.TimeEntry
// @Failure  409   {object}  map[string]string
// @Router   /time-entries/start [post]
func (h *TimeEntryHandler) Start(c *gin.Context) {
	userID, _ := getUserAndRole(c)

	var req startTimerRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	e, err := h.service.Start(c.Request.Context(), userID, req.TaskID, req.Description, h.clock.Now())
	if err != nil {
		respondError(c, "timer", err)
		return
	}
	log.Printf("[timer][start][ok] id=%d user=%d", e.ID, userID)
	c.JSON(http.StatusCreated, e)
}

// @Summary  Stop a timer
// @Tags     TimeEntries
// @Produce  json
// @Security BearerAuth
// @Param    id   path      int  true  "Entry ID"
// @Success  200  {object}  models.TimeEntry
// @Failure  409  {object}  map[string]string
// @Router   /time-entries/{id}/stop [post]
func (h *TimeEntryHandler) Stop(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	e, err := h.service.Stop(c.Request.Context(), userID, id, h.clock.Now())
	if err != nil {
		respondError(c, "timer", err)
		return
	}
	log.Printf("[timer][stop][ok] id=%d user=%d duration=%ds", e.ID, userID, e.Duration)
	c.JSON(http.StatusOK, e)
}

// @Summary  List own time entries
// @Tags     TimeEntries
// @Produce  json
// @Security BearerAuth
// @Param    since  query  string  false  "Lower bound on started_at"
// @Success  200  {array}  models.TimeEntry
// @Router   /time-entries [get]
func (h *TimeEntryHandler) List(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	since := planner.ParseTimestamp(c.Query("since"), h.clock.loc)

	entries, err := h.service.List(c.Request.Context(), userID, since)
	if err != nil {
		respondError(c, "timer", err)
		return
	}
	if entries == nil {
		entries = []models.TimeEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
