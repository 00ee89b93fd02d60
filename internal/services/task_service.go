// internal/services/task_service.go
package services

import (
	"context"
	"log"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, userID, id int64) (*models.Task, error)
	GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, userID, id int64, update *models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, userID, id int64) error

	History(ctx context.Context, userID, taskID int64, filter models.TaskHistoryFilter) ([]models.TaskHistory, error)
	HistoryByID(ctx context.Context, userID, taskID, historyID int64) (*models.TaskHistory, error)
}

type taskService struct {
	repo    repositories.TaskRepository
	history repositories.TaskHistoryRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository, history repositories.TaskHistoryRepository) TaskService {
	return &taskService{repo: repo, history: history}
}

// Create inserts a new task at the requested priority; existing tasks of the
// owner at that priority or above are shifted up first so the new task ends
// up on top. Creation never records history.
func (s *taskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if task.UserID != nil {
		if err := s.repo.ShiftPriorities(ctx, *task.UserID, task.Priority); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, userID, id)
}

func (s *taskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.repo.FindAll(ctx, filter)
}

// Update applies a partial update. The stored status is compared against the
// incoming one and a history row is recorded before the save when they differ.
func (s *taskService) Update(ctx context.Context, userID, id int64, update *models.TaskUpdate) (*models.Task, error) {
	existing, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	oldStatus := existing.Status

	if update.Title != nil {
		existing.Title = *update.Title
	}
	if update.Description != nil {
		existing.Description = *update.Description
	}
	if update.Completed != nil {
		existing.Completed = *update.Completed
	}
	if update.Priority != nil {
		existing.Priority = *update.Priority
	}
	if update.Status != nil {
		existing.Status = *update.Status
	}

	if existing.Status != oldStatus {
		s.recordStatusChange(ctx, oldStatus, existing.Status, existing.ID)
	}

	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// recordStatusChange appends one immutable history row. Failures are logged
// and never block the task save.
func (s *taskService) recordStatusChange(ctx context.Context, from, to models.TaskStatus, taskID int64) {
	h := &models.TaskHistory{
		TaskID:      &taskID,
		OldStatus:   from,
		NewStatus:   to,
		UpdatedDate: time.Now(),
	}
	if err := s.history.Store(ctx, h); err != nil {
		log.Printf("[task][history][err] record %q->%q for taskID=%d: %v", from, to, taskID, err)
	}
}

// Delete soft-deletes the task; the row stays in storage but disappears from
// every user-facing query. A repeat delete reports not found.
func (s *taskService) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.SoftDelete(ctx, userID, id)
}

func (s *taskService) History(ctx context.Context, userID, taskID int64, filter models.TaskHistoryFilter) ([]models.TaskHistory, error) {
	return s.history.FindByTask(ctx, userID, taskID, filter)
}

func (s *taskService) HistoryByID(ctx context.Context, userID, taskID, historyID int64) (*models.TaskHistory, error) {
	return s.history.FindByID(ctx, userID, taskID, historyID)
}
