package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
	"taskmanager/internal/services"
)

// fakeTaskService is an in-memory services.TaskService mirroring the
// semantics the handlers rely on: owner scoping, soft delete, history
// recording on status change, calendar-day history filtering.
type fakeTaskService struct {
	tasks   map[int64]*models.Task
	history []models.TaskHistory
	nextID  int64
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{tasks: map[int64]*models.Task{}}
}

var _ services.TaskService = (*fakeTaskService)(nil)

func (s *fakeTaskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	for _, t := range s.tasks {
		if !t.Deleted && t.UserID != nil && task.UserID != nil && *t.UserID == *task.UserID && t.Priority >= task.Priority {
			t.Priority++
		}
	}
	s.nextID++
	task.ID = s.nextID
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	cp := *task
	s.tasks[task.ID] = &cp
	return task, nil
}

func (s *fakeTaskService) get(userID, id int64) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.Deleted || t.UserID == nil || *t.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return t, nil
}

func (s *fakeTaskService) GetByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	t, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTaskService) GetAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range s.tasks {
		if t.Deleted {
			continue
		}
		if filter.UserID != nil && (t.UserID == nil || *t.UserID != *filter.UserID) {
			continue
		}
		if filter.Title != nil && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(*filter.Title)) {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTaskService) Update(ctx context.Context, userID, id int64, update *models.TaskUpdate) (*models.Task, error) {
	t, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Completed != nil {
		t.Completed = *update.Completed
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.Status != nil && *update.Status != t.Status {
		taskID := t.ID
		s.history = append(s.history, models.TaskHistory{
			ID:          int64(len(s.history) + 1),
			TaskID:      &taskID,
			OldStatus:   t.Status,
			NewStatus:   *update.Status,
			UpdatedDate: time.Now(),
		})
		t.Status = *update.Status
	}
	t.UpdatedAt = time.Now()
	cp := *t
	return &cp, nil
}

func (s *fakeTaskService) Delete(ctx context.Context, userID, id int64) error {
	t, err := s.get(userID, id)
	if err != nil {
		return err
	}
	t.Deleted = true
	return nil
}

func (s *fakeTaskService) History(ctx context.Context, userID, taskID int64, filter models.TaskHistoryFilter) ([]models.TaskHistory, error) {
	owner, ok := s.tasks[taskID]
	if !ok || owner.UserID == nil || *owner.UserID != userID {
		return nil, nil
	}
	var out []models.TaskHistory
	for _, h := range s.history {
		if h.TaskID == nil || *h.TaskID != taskID {
			continue
		}
		if filter.OldStatus != nil && h.OldStatus != *filter.OldStatus {
			continue
		}
		if filter.NewStatus != nil && h.NewStatus != *filter.NewStatus {
			continue
		}
		if filter.UpdatedDate != nil {
			hy, hm, hd := h.UpdatedDate.UTC().Date()
			fy, fm, fd := filter.UpdatedDate.UTC().Date()
			if hy != fy || hm != fm || hd != fd {
				continue
			}
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *fakeTaskService) HistoryByID(ctx context.Context, userID, taskID, historyID int64) (*models.TaskHistory, error) {
	records, err := s.History(ctx, userID, taskID, models.TaskHistoryFilter{})
	if err != nil {
		return nil, err
	}
	for _, h := range records {
		if h.ID == historyID {
			cp := h
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// newTaskRouter wires the task and history handlers behind a stub auth
// middleware that authenticates everyone as the given user.
func newTaskRouter(svc services.TaskService, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })

	taskHandler := NewTaskHandler(svc)
	historyHandler := NewHistoryHandler(svc)

	task := r.Group("/api/v1/task")
	{
		task.GET("/", taskHandler.GetAll)
		task.POST("/", taskHandler.Create)
		task.GET("/:id/", taskHandler.GetByID)
		task.PATCH("/:id/", taskHandler.Update)
		task.DELETE("/:id/", taskHandler.Delete)
		task.GET("/:id/history/", historyHandler.List)
		task.GET("/:id/history/:history_id/", historyHandler.GetByID)
	}
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
