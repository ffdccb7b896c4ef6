package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/authz"
	"workhub/internal/planner"
)

func dashboardRouter(h *DashboardHandler) *gin.Engine {
	r := gin.New()
	r.POST("/planner/buckets", h.PreviewBuckets)
	auth := r.Group("/", withUser(4, authz.RoleMember))
	auth.GET("/dashboard/board", h.Board)
	auth.GET("/dashboard/calendar", h.Calendar)
	auth.GET("/dashboard/timeline", h.Timeline)
	auth.GET("/dashboard/workspaces", h.WorkspaceStats)
	return r
}

func TestDashboardHandler_BoardNow(t *testing.T) {
	var gotNow time.Time
	svc := &fakeDashboardService{
		boardFn: func(ctx context.Context, userID int64, now time.Time) (planner.Buckets, error) {
			gotNow = now
			return planner.BucketTasks(nil, now), nil
		},
	}
	r := dashboardRouter(NewDashboardHandler(svc, testClock()))

	w := do(r, http.MethodGet, "/dashboard/board?now=2024-01-02T03:04:05Z", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET board = %d", w.Code)
	}
	if !gotNow.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("board now = %v", gotNow)
	}

	do(r, http.MethodGet, "/dashboard/board?now=yesterday-ish", "")
	if !gotNow.Equal(fixedNow) {
		t.Fatalf("malformed now = %v, want server clock %v", gotNow, fixedNow)
	}

	var body map[string][]any
	w = do(r, http.MethodGet, "/dashboard/board", "")
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	for _, k := range []string{"overdue", "today", "this_week", "later", "done"} {
		if v, ok := body[k]; !ok || v == nil {
			t.Fatalf("board[%q] = %v, want empty array", k, v)
		}
	}
}

func TestDashboardHandler_CalendarMonth(t *testing.T) {
	var gotMonth time.Time
	svc := &fakeDashboardService{
		calendarFn: func(ctx context.Context, userID int64, month time.Time) ([]planner.CalendarDay, error) {
			gotMonth = month
			return planner.CalendarMonth(nil, month), nil
		},
	}
	r := dashboardRouter(NewDashboardHandler(svc, testClock()))

	w := do(r, http.MethodGet, "/dashboard/calendar?month=2024-02", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET calendar = %d", w.Code)
	}
	if gotMonth.Month() != time.February || gotMonth.Year() != 2024 {
		t.Fatalf("calendar month = %v", gotMonth)
	}
	var days []planner.CalendarDay
	if err := json.Unmarshal(w.Body.Bytes(), &days); err != nil || len(days) != 29 {
		t.Fatalf("calendar days = %d (%v), want 29", len(days), err)
	}

	if w := do(r, http.MethodGet, "/dashboard/calendar?month=Feb", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("GET calendar?month=Feb = %d, want 400", w.Code)
	}
}

func TestDashboardHandler_EmptyListsAreArrays(t *testing.T) {
	r := dashboardRouter(NewDashboardHandler(&fakeDashboardService{}, testClock()))
	for _, path := range []string{"/dashboard/timeline", "/dashboard/workspaces"} {
		w := do(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK || w.Body.String() != "[]" {
			t.Fatalf("GET %s = %d %s, want []", path, w.Code, w.Body.String())
		}
	}
}

func TestDashboardHandler_PreviewBuckets(t *testing.T) {
	r := dashboardRouter(NewDashboardHandler(&fakeDashboardService{}, testClock()))
	body := `{
		"now": "2024-06-10T12:00:00Z",
		"tasks": [
			{"id": 1, "status": "todo", "due_date": "2024-06-09T00:00:00Z"},
			{"id": 2, "status": "todo", "due_date": "2024-06-10"},
			{"id": 3, "status": "todo", "due_date": "2024-06-14 09:00:00"},
			{"id": 4, "status": "todo", "due_date": "not a date"},
			{"id": 5, "status": "done", "updated_at": "2024-06-01T00:00:00Z"}
		]
	}`
	w := do(r, http.MethodPost, "/planner/buckets", body)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /planner/buckets = %d %s", w.Code, w.Body.String())
	}

	var got map[string][]struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]int64{"overdue": 1, "today": 2, "this_week": 3, "later": 4, "done": 5}
	for bucket, id := range want {
		if len(got[bucket]) != 1 || got[bucket][0].ID != id {
			t.Errorf("%s = %+v, want [%d]", bucket, got[bucket], id)
		}
	}

	if w := do(r, http.MethodPost, "/planner/buckets", `{"tasks": 5}`); w.Code != http.StatusBadRequest {
		t.Fatalf("POST malformed body = %d, want 400", w.Code)
	}
}
