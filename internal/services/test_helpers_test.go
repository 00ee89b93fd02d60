package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// In-memory repository fakes. They mirror the SQL semantics the real
// repositories implement: soft-deleted rows invisible, owner scoping via
// the task join, calendar-day matching for the history date filter.

type fakeTaskRepo struct {
	mu     sync.Mutex
	tasks  map[int64]*models.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*models.Task{}}
}

func (r *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	task.ID = r.nextID
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Deleted || t.UserID == nil || *t.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Task
	for _, t := range r.tasks {
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
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tasks[task.ID]
	if !ok || stored.Deleted {
		return nil
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) SoftDelete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.Deleted || t.UserID == nil || *t.UserID != userID {
		return repositories.ErrNotFound
	}
	t.Deleted = true
	t.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTaskRepo) ShiftPriorities(ctx context.Context, userID int64, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.Deleted || t.UserID == nil || *t.UserID != userID {
			continue
		}
		if t.Priority >= priority {
			t.Priority++
		}
	}
	return nil
}

// raw returns the stored row regardless of the deleted flag.
func (r *fakeTaskRepo) raw(id int64) *models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tasks[id]
}

type fakeHistoryRepo struct {
	mu       sync.Mutex
	records  []models.TaskHistory
	nextID   int64
	tasks    *fakeTaskRepo
	storeErr error
}

func newFakeHistoryRepo(tasks *fakeTaskRepo) *fakeHistoryRepo {
	return &fakeHistoryRepo{tasks: tasks}
}

func (r *fakeHistoryRepo) Store(ctx context.Context, h *models.TaskHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	r.nextID++
	h.ID = r.nextID
	r.records = append(r.records, *h)
	return nil
}

func (r *fakeHistoryRepo) ownedBy(taskID, userID int64) bool {
	t := r.tasks.raw(taskID)
	return t != nil && t.UserID != nil && *t.UserID == userID
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (r *fakeHistoryRepo) FindByTask(ctx context.Context, userID, taskID int64, filter models.TaskHistoryFilter) ([]models.TaskHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownedBy(taskID, userID) {
		return nil, nil
	}
	var out []models.TaskHistory
	for _, h := range r.records {
		if h.TaskID == nil || *h.TaskID != taskID {
			continue
		}
		if filter.OldStatus != nil && h.OldStatus != *filter.OldStatus {
			continue
		}
		if filter.NewStatus != nil && h.NewStatus != *filter.NewStatus {
			continue
		}
		if filter.UpdatedDate != nil && !sameDay(h.UpdatedDate, *filter.UpdatedDate) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *fakeHistoryRepo) FindByID(ctx context.Context, userID, taskID, id int64) (*models.TaskHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ownedBy(taskID, userID) {
		return nil, repositories.ErrNotFound
	}
	for _, h := range r.records {
		if h.ID == id && h.TaskID != nil && *h.TaskID == taskID {
			cp := h
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

type fakeReportRepo struct {
	mu          sync.Mutex
	reports     map[int64]*models.EmailTaskReport
	ensureCalls int
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[int64]*models.EmailTaskReport{}}
}

func (r *fakeReportRepo) EnsureForUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureCalls++
	if _, ok := r.reports[userID]; ok {
		return nil
	}
	r.reports[userID] = &models.EmailTaskReport{
		ID:       userID,
		UserID:   userID,
		SendTime: time.Now().UTC(),
		TimeZone: "UTC",
	}
	return nil
}

func (r *fakeReportRepo) FindByUser(ctx context.Context, userID int64) (*models.EmailTaskReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reports[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeReportRepo) FindDue(ctx context.Context, now time.Time) ([]models.EmailTaskReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.EmailTaskReport
	for _, rep := range r.reports {
		if !rep.SendTime.After(now) {
			out = append(out, *rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SendTime.Before(out[j].SendTime) })
	return out, nil
}

func (r *fakeReportRepo) Update(ctx context.Context, report *models.EmailTaskReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *report
	r.reports[report.UserID] = &cp
	return nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeEmailService struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{failFor: map[string]error{}}
}

func (s *fakeEmailService) SendTaskReport(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[to]; ok {
		return err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
