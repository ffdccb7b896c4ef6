package handlers

import (
	"context"
	"html"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/authz"
	"workhub/internal/models"
	"workhub/internal/planner"
	"workhub/internal/realtime"
	"workhub/internal/services"
)

// assigneeLookup is what the handler needs to find the chat of an assignee.
type assigneeLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// boardPublisher pushes change events to open board streams.
type boardPublisher interface {
	Publish(ev realtime.BoardEvent, userIDs ...int64)
}

type TaskHandler struct {
	service services.TaskService
	loc     *time.Location
	events  boardPublisher

	// ↓↓↓ Телеграм-уведомления
	tg    services.MessageSender
	users assigneeLookup
}

func NewTaskHandler(service services.TaskService, loc *time.Location, events boardPublisher, tg services.MessageSender, users assigneeLookup) *TaskHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TaskHandler{service: service, loc: loc, events: events, tg: tg, users: users}
}

func (h *TaskHandler) publish(typ realtime.BoardEventType, t *models.Task) {
	if h.events == nil || t == nil {
		return
	}
	h.events.Publish(realtime.BoardEvent{
		Type:   typ,
		TaskID: t.ID,
		Status: string(t.Status),
		At:     time.Now(),
	}, t.CreatorID, t.AssigneeID)
}

func canSeeTask(t *models.Task, uid int64, roleID int) bool {
	return roleID == authz.RoleAdmin || t.CreatorID == uid || t.AssigneeID == uid
}

type createTaskRequest struct {
	AssigneeID  int64               `json:"assignee_id"`
	ProjectID   *int64              `json:"project_id"`
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	DueDate     string              `json:"due_date"`
	Priority    models.TaskPriority `json:"priority"`
	Status      models.TaskStatus   `json:"status"`
	LabelIDs    []int64             `json:"label_ids"`
}

// @Summary  Create task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    task  body      createTaskRequest  true  "Task"
// @Success  201   {object}  models.Task
// @Failure  400   {object}  map[string]string
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][create] call by userID=%d role=%d", userID, roleID)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AssigneeID == 0 {
		req.AssigneeID = userID
	}
	if roleID != authz.RoleAdmin && req.AssigneeID != userID {
		log.Printf("[task][create][deny] member=%d tried assign to %d", userID, req.AssigneeID)
		c.JSON(http.StatusForbidden, gin.H{"error": "members can assign only to self"})
		return
	}

	due, ok := h.parseDue(c, req.DueDate)
	if !ok {
		return
	}

	task := &models.Task{
		CreatorID:   userID,
		AssigneeID:  req.AssigneeID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	created, err := h.service.Create(c.Request.Context(), task, req.LabelIDs)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	log.Printf("[task][create][ok] id=%d assignee_id=%d title=%q", created.ID, created.AssigneeID, created.Title)
	c.JSON(http.StatusCreated, created)
	h.publish(realtime.TaskCreated, created)

	h.notifyAssignee(c, created, "📌 New task")
}

// parseDue accepts the same lenient formats as the planner; an empty string
// clears the due date.
func (h *TaskHandler) parseDue(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t := planner.ParseTimestamp(raw, h.loc)
	if t == nil {
		log.Printf("[task][err] invalid due_date=%q", raw)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return nil, false
	}
	return t, true
}

// @Summary  Get task
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Param    id   path      int  true  "Task ID"
// @Success  200  {object}  models.Task
// @Failure  404  {object}  map[string]string
// @Router   /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	if !canSeeTask(task, userID, roleID) {
		log.Printf("[task][getByID][deny] uid=%d id=%d", userID, id)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      List tasks
// @Description  Members see their own tasks; admins may filter by any user.
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        assignee_id   query  int     false  "Assignee"
// @Param        creator_id    query  int     false  "Creator"
// @Param        project_id    query  int     false  "Project"
// @Param        workspace_id  query  int     false  "Workspace"
// @Param        status        query  string  false  "Status"
// @Success      200  {array}  models.Task
// @Router       /tasks [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][list] call by userID=%d role=%d q=%v", userID, roleID, c.Request.URL.RawQuery)

	var filter models.TaskFilter
	for key, dst := range map[string]**int64{
		"assignee_id":  &filter.AssigneeID,
		"creator_id":   &filter.CreatorID,
		"project_id":   &filter.ProjectID,
		"workspace_id": &filter.WorkspaceID,
	} {
		v, ok := c.GetQuery(key)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("[task][list][warn] bad %s=%q: %v", key, v, err)
			continue
		}
		*dst = &id
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		if !models.IsValidStatus(st) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &st
	}

	if roleID != authz.RoleAdmin {
		if (filter.AssigneeID != nil && *filter.AssigneeID != userID) ||
			(filter.CreatorID != nil && *filter.CreatorID != userID) {
			log.Printf("[task][list][deny] uid=%d foreign filter", userID)
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		if filter.AssigneeID == nil && filter.CreatorID == nil {
			filter.AssigneeID = &userID
		}
	}

	tasks, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	log.Printf("[task][list][ok] count=%d", len(tasks))
	c.JSON(http.StatusOK, tasks)
}

type updateTaskRequest struct {
	AssigneeID  *int64               `json:"assignee_id"`
	ProjectID   *int64               `json:"project_id"`
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	DueDate     *string              `json:"due_date"`
	Priority    *models.TaskPriority `json:"priority"`
	Status      *models.TaskStatus   `json:"status"`
}

// @Summary  Update task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id    path      int                true  "Task ID"
// @Param    task  body      updateTaskRequest  true  "Fields to change"
// @Success  200   {object}  models.Task
// @Failure  409   {object}  map[string]string
// @Router   /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][update] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	if !canSeeTask(current, userID, roleID) {
		log.Printf("[task][update][deny] uid=%d creator=%d assignee=%d", userID, current.CreatorID, current.AssigneeID)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := *current
	if req.AssigneeID != nil {
		if roleID != authz.RoleAdmin && *req.AssigneeID != userID {
			log.Printf("[task][update][deny] member uid=%d set assignee=%d", userID, *req.AssigneeID)
			c.JSON(http.StatusForbidden, gin.H{"error": "members can assign only to self"})
			return
		}
		update.AssigneeID = *req.AssigneeID
	}
	if req.ProjectID != nil {
		update.ProjectID = req.ProjectID
		if *req.ProjectID == 0 {
			update.ProjectID = nil
		}
	}
	if req.Title != nil {
		update.Title = *req.Title
	}
	if req.Description != nil {
		update.Description = *req.Description
	}
	if req.DueDate != nil {
		due, ok := h.parseDue(c, *req.DueDate)
		if !ok {
			return
		}
		update.DueDate = due
	}
	if req.Priority != nil {
		update.Priority = *req.Priority
	}
	if req.Status != nil {
		update.Status = *req.Status
	}

	updated, err := h.service.Update(c.Request.Context(), id, &update)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, updated)
	h.publish(realtime.TaskUpdated, updated)

	h.notifyAssignee(c, updated, "✏️ Task updated")
}

// @Summary  Delete task
// @Tags     Tasks
// @Security BearerAuth
// @Param    id  path  int  true  "Task ID"
// @Success  204
// @Failure  404  {object}  map[string]string
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][delete] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	if roleID != authz.RoleAdmin && current.CreatorID != userID {
		log.Printf("[task][delete][deny] uid=%d creator=%d", userID, current.CreatorID)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "task", err)
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
	h.publish(realtime.TaskDeleted, current)
}

type changeStatusRequest struct {
	To models.TaskStatus `json:"to" binding:"required"`
}

// @Summary  Change task status
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id    path      int                  true  "Task ID"
// @Param    body  body      changeStatusRequest  true  "Target status"
// @Success  200   {object}  models.Task
// @Failure  409   {object}  map[string]string
// @Router   /tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	log.Printf("[task][status] call by userID=%d role=%d id_param=%s", userID, roleID, c.Param("id"))

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	if !canSeeTask(current, userID, roleID) {
		log.Printf("[task][status][deny] uid=%d creator=%d assignee=%d", userID, current.CreatorID, current.AssigneeID)
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var body changeStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Printf("[task][status][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		respondError(c, "task", err)
		return
	}
	log.Printf("[task][status][ok] id=%d from=%q to=%q", id, current.Status, body.To)
	c.JSON(http.StatusOK, updated)
	h.publish(realtime.TaskUpdated, updated)

	h.notifyAssignee(c, updated, "🔁 Status changed to "+string(body.To))
}

// === TG helpers ===
func (h *TaskHandler) notifyAssignee(c *gin.Context, t *models.Task, prefix string) {
	if h.tg == nil || !h.tg.Enabled() || h.users == nil || t == nil {
		return
	}
	uid, _ := getUserAndRole(c)
	if t.AssigneeID == uid {
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), t.AssigneeID)
	if err != nil {
		log.Printf("[task][notify] load assignee=%d failed: %v", t.AssigneeID, err)
		return
	}
	if !u.NotifyTelegram || u.TelegramChatID == 0 {
		return
	}
	_ = h.tg.SendMessage(u.TelegramChatID, formatTaskMessage(prefix, t, h.loc))
}

func formatTaskMessage(prefix string, t *models.Task, loc *time.Location) string {
	due := "—"
	if t.DueDate != nil {
		due = t.DueDate.In(loc).Format("2006-01-02 15:04")
	}
	return prefix + "\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b>\n" +
		"• Status: <code>" + string(t.Status) + "</code>\n" +
		"• Priority: <code>" + string(t.Priority) + "</code>\n" +
		"• Due: <code>" + due + "</code>"
}
