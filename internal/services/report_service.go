package services

import (
	"context"
	"errors"
	"io"
	"time"

	"workhub/internal/models"
	"workhub/internal/pdf"
	"workhub/internal/planner"
	"workhub/internal/repositories"
)

type ReportService struct {
	tasks      repositories.TaskRepository
	entries    repositories.TimeEntryRepository
	workspaces repositories.WorkspaceRepository
	gen        pdf.Generator
}

func NewReportService(
	tasks repositories.TaskRepository,
	entries repositories.TimeEntryRepository,
	workspaces repositories.WorkspaceRepository,
	gen pdf.Generator,
) *ReportService {
	return &ReportService{tasks: tasks, entries: entries, workspaces: workspaces, gen: gen}
}

// BuildWorkspaceReport collects the report data for a workspace the user belongs to.
// Time entries are the user's own, limited to tasks of that workspace.
func (s *ReportService) BuildWorkspaceReport(ctx context.Context, userID, workspaceID int64, now time.Time) (*pdf.ReportData, error) {
	member, err := s.workspaces.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tasks, err := s.tasks.FindAll(ctx, models.TaskFilter{WorkspaceID: &workspaceID})
	if err != nil {
		return nil, err
	}
	since := planner.StartOfDay(now).Add(-TimelineWindow)
	entries, err := s.entries.ListByUser(ctx, userID, &since)
	if err != nil {
		return nil, err
	}

	inWorkspace := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		inWorkspace[t.ID] = true
	}
	scoped := make([]models.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.TaskID != nil && inWorkspace[*e.TaskID] {
			scoped = append(scoped, e)
		}
	}

	stats := planner.ComputeWorkspaceStats(tasks, []models.Workspace{*ws})
	return &pdf.ReportData{
		Workspace:   stats[0],
		Counts:      planner.CountBuckets(tasks, now),
		Timeline:    planner.MergeTimeline(withinWindow(tasks, since), scoped, now),
		GeneratedAt: now,
	}, nil
}

func (s *ReportService) WorkspaceReport(ctx context.Context, userID, workspaceID int64, now time.Time, w io.Writer) error {
	data, err := s.BuildWorkspaceReport(ctx, userID, workspaceID, now)
	if err != nil {
		return err
	}
	return s.gen.WorkspaceReport(w, *data)
}
