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

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, task *models.Task, labelIDs []int64) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error)
}

type taskService struct {
	repo repositories.TaskRepository
	now  func() time.Time
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, task *models.Task, labelIDs []int64) (*models.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !models.IsValidStatus(task.Status) || !models.IsValidPriority(task.Priority) {
		return nil, fmt.Errorf("%w: status=%q priority=%q", ErrInvalidInput, task.Status, task.Priority)
	}
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	if len(labelIDs) > 0 {
		if err := s.repo.SetLabels(ctx, task.ID, labelIDs); err != nil {
			return nil, fmt.Errorf("set labels: %w", err)
		}
	}
	return s.GetByID(ctx, task.ID)
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id", ErrInvalidInput)
	}
	t, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *taskService) Update(ctx context.Context, id int64, updateData *models.Task) (*models.Task, error) {
	existingTask, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(existingTask.Status, updateData.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, existingTask.Status, updateData.Status)
	}
	if !models.IsValidPriority(updateData.Priority) || strings.TrimSpace(updateData.Title) == "" {
		return nil, ErrInvalidInput
	}

	existingTask.AssigneeID = updateData.AssigneeID
	existingTask.ProjectID = updateData.ProjectID
	existingTask.Title = strings.TrimSpace(updateData.Title)
	existingTask.Description = updateData.Description
	existingTask.DueDate = updateData.DueDate
	existingTask.Priority = updateData.Priority
	existingTask.Status = updateData.Status
	existingTask.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, existingTask); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) (*models.Task, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}
