package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"workhub/internal/models"
	"workhub/internal/repositories"
)

type TimeEntryService interface {
	Start(ctx context.Context, userID int64, taskID *int64, description string, now time.Time) (*models.TimeEntry, error)
	Stop(ctx context.Context, userID, entryID int64, now time.Time) (*models.TimeEntry, error)
	List(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error)
}

type timeEntryService struct {
	repo  repositories.TimeEntryRepository
	tasks repositories.TaskRepository
}

func NewTimeEntryService(repo repositories.TimeEntryRepository, tasks repositories.TaskRepository) TimeEntryService {
	return &timeEntryService{repo: repo, tasks: tasks}
}

// Start opens a new timer. Only one timer per user may run at a time.
func (s *timeEntryService) Start(ctx context.Context, userID int64, taskID *int64, description string, now time.Time) (*models.TimeEntry, error) {
	running, err := s.repo.FindRunning(ctx, userID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, fmt.Errorf("%w: entry %d", ErrTimerRunning, running.ID)
	}

	if taskID != nil {
		if _, err := s.tasks.FindByID(ctx, *taskID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: task %d", ErrInvalidInput, *taskID)
			}
			return nil, err
		}
	}

	e := &models.TimeEntry{
		UserID:      userID,
		TaskID:      taskID,
		StartedAt:   now,
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, repositories.ErrRunningEntry) {
			return nil, fmt.Errorf("%w: started concurrently", ErrTimerRunning)
		}
		return nil, err
	}
	return e, nil
}

// Stop closes the timer and stores its duration in whole seconds.
func (s *timeEntryService) Stop(ctx context.Context, userID, entryID int64, now time.Time) (*models.TimeEntry, error) {
	e, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if e.UserID != userID {
		return nil, ErrForbidden
	}
	if !e.Running() {
		return nil, ErrTimerStopped
	}

	duration := EntryDuration(e.StartedAt, now)
	if err := s.repo.Stop(ctx, e.ID, now, duration); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTimerStopped
		}
		return nil, err
	}
	e.StoppedAt = &now
	e.Duration = duration
	return e, nil
}

func (s *timeEntryService) List(ctx context.Context, userID int64, since *time.Time) ([]models.TimeEntry, error) {
	return s.repo.ListByUser(ctx, userID, since)
}

// EntryDuration is the whole seconds between start and stop, never negative.
func EntryDuration(start, stop time.Time) int64 {
	d := int64(stop.Sub(start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}
