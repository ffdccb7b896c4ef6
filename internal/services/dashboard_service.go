package services

import (
	"context"
	"time"

	"workhub/internal/models"
	"workhub/internal/planner"
	"workhub/internal/repositories"
)

const (
	// TimelineWindow bounds how far back the activity feed reaches.
	TimelineWindow = 30 * 24 * time.Hour
	hubRecentLimit = 10
)

type ActivityItem struct {
	Kind      planner.TimelineKind `json:"kind"`
	Title     string               `json:"title"`
	When      string               `json:"when"`
	Timestamp time.Time            `json:"timestamp"`
}

type HubSummary struct {
	Workspaces   []models.WorkspaceStat `json:"workspaces"`
	Counts       map[planner.Bucket]int `json:"counts"`
	TrackedToday int64                  `json:"tracked_today"`
	Recent       []ActivityItem         `json:"recent"`
}

// DashboardService loads a user's visible records and hands them to the planner.
type DashboardService interface {
	Board(ctx context.Context, userID int64, now time.Time) (planner.Buckets, error)
	Calendar(ctx context.Context, userID int64, month time.Time) ([]planner.CalendarDay, error)
	Timeline(ctx context.Context, userID int64, now time.Time) ([]planner.TimelineGroup, error)
	WorkspaceStats(ctx context.Context, userID int64) ([]models.WorkspaceStat, error)
	Hub(ctx context.Context, userID int64, now time.Time) (*HubSummary, error)
}

type dashboardService struct {
	tasks      repositories.TaskRepository
	entries    repositories.TimeEntryRepository
	workspaces repositories.WorkspaceRepository
}

func NewDashboardService(
	tasks repositories.TaskRepository,
	entries repositories.TimeEntryRepository,
	workspaces repositories.WorkspaceRepository,
) DashboardService {
	return &dashboardService{tasks: tasks, entries: entries, workspaces: workspaces}
}

func (s *dashboardService) assigned(ctx context.Context, userID int64) ([]models.Task, error) {
	return s.tasks.FindAll(ctx, models.TaskFilter{AssigneeID: &userID})
}

func (s *dashboardService) Board(ctx context.Context, userID int64, now time.Time) (planner.Buckets, error) {
	tasks, err := s.assigned(ctx, userID)
	if err != nil {
		return planner.Buckets{}, err
	}
	return planner.BucketTasks(tasks, now), nil
}

func (s *dashboardService) Calendar(ctx context.Context, userID int64, month time.Time) ([]planner.CalendarDay, error) {
	tasks, err := s.assigned(ctx, userID)
	if err != nil {
		return nil, err
	}
	return planner.CalendarMonth(tasks, month), nil
}

func (s *dashboardService) Timeline(ctx context.Context, userID int64, now time.Time) ([]planner.TimelineGroup, error) {
	tasks, entries, err := s.activity(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return planner.MergeTimeline(tasks, entries, now), nil
}

func (s *dashboardService) activity(ctx context.Context, userID int64, now time.Time) ([]models.Task, []models.TimeEntry, error) {
	since := planner.StartOfDay(now).Add(-TimelineWindow)
	tasks, err := s.assigned(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.entries.ListByUser(ctx, userID, &since)
	if err != nil {
		return nil, nil, err
	}
	return withinWindow(tasks, since), entries, nil
}

// withinWindow drops done tasks completed before since; open tasks never
// reach the feed so they are kept untouched.
func withinWindow(tasks []models.Task, since time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == models.StatusDone && t.UpdatedAt.Before(since) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *dashboardService) WorkspaceStats(ctx context.Context, userID int64) ([]models.WorkspaceStat, error) {
	tasks, err := s.assigned(ctx, userID)
	if err != nil {
		return nil, err
	}
	workspaces, err := s.workspaces.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return planner.ComputeWorkspaceStats(tasks, workspaces), nil
}

func (s *dashboardService) Hub(ctx context.Context, userID int64, now time.Time) (*HubSummary, error) {
	tasks, err := s.assigned(ctx, userID)
	if err != nil {
		return nil, err
	}
	workspaces, err := s.workspaces.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	since := planner.StartOfDay(now).Add(-TimelineWindow)
	entries, err := s.entries.ListByUser(ctx, userID, &since)
	if err != nil {
		return nil, err
	}

	var today []models.TimeEntry
	for _, e := range entries {
		if !e.Running() && planner.IsSameDay(*e.StoppedAt, now) {
			today = append(today, e)
		}
	}

	items := planner.TimelineItems(withinWindow(tasks, since), entries)
	if len(items) > hubRecentLimit {
		items = items[:hubRecentLimit]
	}
	recent := make([]ActivityItem, 0, len(items))
	for _, it := range items {
		recent = append(recent, ActivityItem{
			Kind:      it.Kind,
			Title:     it.Title(),
			When:      planner.FormatRelative(it.Timestamp, now),
			Timestamp: it.Timestamp,
		})
	}

	return &HubSummary{
		Workspaces:   planner.ComputeWorkspaceStats(tasks, workspaces),
		Counts:       planner.CountBuckets(tasks, now),
		TrackedToday: planner.TrackedSeconds(today),
		Recent:       recent,
	}, nil
}
