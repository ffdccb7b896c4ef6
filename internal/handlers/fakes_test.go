package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/middleware"
	"workhub/internal/models"
	"workhub/internal/planner"
	"workhub/internal/realtime"
	"workhub/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func testClock() Clock {
	return Clock{loc: time.UTC, now: func() time.Time { return fixedNow }}
}

// withUser fakes what AuthMiddleware puts into the context.
func withUser(userID int64, roleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxRoleID, roleID)
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeTaskService struct {
	createFn       func(ctx context.Context, t *models.Task, labelIDs []int64) (*models.Task, error)
	getByIDFn      func(ctx context.Context, id int64) (*models.Task, error)
	getAllFn       func(ctx context.Context, f models.TaskFilter) ([]models.Task, error)
	updateFn       func(ctx context.Context, id int64, t *models.Task) (*models.Task, error)
	deleteFn       func(ctx context.Context, id int64) error
	updateStatusFn func(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)
}

func (f *fakeTaskService) Create(ctx context.Context, t *models.Task, labelIDs []int64) (*models.Task, error) {
	return f.createFn(ctx, t, labelIDs)
}

func (f *fakeTaskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	if f.getByIDFn == nil {
		return nil, services.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeTaskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	if f.getAllFn == nil {
		return nil, nil
	}
	return f.getAllFn(ctx, filter)
}

func (f *fakeTaskService) Update(ctx context.Context, id int64, t *models.Task) (*models.Task, error) {
	return f.updateFn(ctx, id, t)
}

func (f *fakeTaskService) Delete(ctx context.Context, id int64) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeTaskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	return f.updateStatusFn(ctx, id, to)
}

type fakeTimeEntryService struct {
	startFn func(ctx context.Context, userID int64, taskID *int64, desc string, now time.Time) (*models.TimeEntry, error)
	stopFn  func(ctx context.Context, userID, entryID int64, now time.Time) (*models.TimeEntry, error)
	listFn  func(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error)
}

func (f *fakeTimeEntryService) Start(ctx context.Context, userID int64, taskID *int64, desc string, now time.Time) (*models.TimeEntry, error) {
	return f.startFn(ctx, userID, taskID, desc, now)
}

func (f *fakeTimeEntryService) Stop(ctx context.Context, userID, entryID int64, now time.Time) (*models.TimeEntry, error) {
	return f.stopFn(ctx, userID, entryID, now)
}

func (f *fakeTimeEntryService) List(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, userID, since)
}

type fakeDashboardService struct {
	boardFn    func(ctx context.Context, userID int64, now time.Time) (planner.Buckets, error)
	calendarFn func(ctx context.Context, userID int64, month time.Time) ([]planner.CalendarDay, error)
}

func (f *fakeDashboardService) Board(ctx context.Context, userID int64, now time.Time) (planner.Buckets, error) {
	return f.boardFn(ctx, userID, now)
}

func (f *fakeDashboardService) Calendar(ctx context.Context, userID int64, month time.Time) ([]planner.CalendarDay, error) {
	return f.calendarFn(ctx, userID, month)
}

func (f *fakeDashboardService) Timeline(ctx context.Context, userID int64, now time.Time) ([]planner.TimelineGroup, error) {
	return nil, nil
}

func (f *fakeDashboardService) WorkspaceStats(ctx context.Context, userID int64) ([]models.WorkspaceStat, error) {
	return nil, nil
}

func (f *fakeDashboardService) Hub(ctx context.Context, userID int64, now time.Time) (*services.HubSummary, error) {
	return &services.HubSummary{}, nil
}

type fakeUserService struct {
	users     map[int64]*models.User
	authFn    func(ctx context.Context, email, password string) (*models.User, error)
	updatedTo *models.NotificationPrefs
}

func (f *fakeUserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, services.ErrNotFound
}

func (f *fakeUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, services.ErrNotFound
}

func (f *fakeUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return f.authFn(ctx, email, password)
}

func (f *fakeUserService) UpdateNotifications(ctx context.Context, id int64, prefs models.NotificationPrefs) (*models.User, error) {
	f.updatedTo = &prefs
	return &models.User{ID: id, NotifyEmail: prefs.NotifyEmail}, nil
}

type fakeSender struct {
	chats []int64
}

func (f *fakeSender) Enabled() bool { return true }

func (f *fakeSender) SendMessage(chatID int64, text string) error {
	f.chats = append(f.chats, chatID)
	return nil
}

type fakePublisher struct {
	events []realtime.BoardEvent
	users  [][]int64
}

func (f *fakePublisher) Publish(ev realtime.BoardEvent, userIDs ...int64) {
	f.events = append(f.events, ev)
	f.users = append(f.users, userIDs)
}
