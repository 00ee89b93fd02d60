package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskmanager/internal/models"
)

// TaskHistoryRepository stores immutable status-transition records. Reads are
// scoped to the task owner by joining on tasks; a foreign or missing task
// simply yields no rows.
type TaskHistoryRepository interface {
	Store(ctx context.Context, h *models.TaskHistory) error
	FindByTask(ctx context.Context, userID, taskID int64, filter models.TaskHistoryFilter) ([]models.TaskHistory, error)
	FindByID(ctx context.Context, userID, taskID, id int64) (*models.TaskHistory, error)
}

type taskHistoryRepository struct {
	db *sql.DB
}

func NewTaskHistoryRepository(db *sql.DB) TaskHistoryRepository {
	return &taskHistoryRepository{db: db}
}

func (r *taskHistoryRepository) Store(ctx context.Context, h *models.TaskHistory) error {
	query := `
		INSERT INTO task_history (task_id, old_status, new_status, updated_date)
		VALUES ($1,$2,$3,$4)
		RETURNING id, updated_date`
	return r.db.QueryRowContext(ctx, query,
		h.TaskID, h.OldStatus, h.NewStatus, h.UpdatedDate,
	).Scan(&h.ID, &h.UpdatedDate)
}

func (r *taskHistoryRepository) FindByTask(ctx context.Context, userID, taskID int64, filter models.TaskHistoryFilter) ([]models.TaskHistory, error) {
	baseQuery := `
		SELECT h.id, h.task_id, h.old_status, h.new_status, h.updated_date
		FROM task_history h
		JOIN tasks t ON t.id = h.task_id`

	conditions := []string{"h.task_id = $1", "t.user_id = $2"}
	args := []interface{}{taskID, userID}
	argID := 3

	if filter.OldStatus != nil {
		conditions = append(conditions, fmt.Sprintf("h.old_status = $%d", argID))
		args = append(args, *filter.OldStatus)
		argID++
	}
	if filter.NewStatus != nil {
		conditions = append(conditions, fmt.Sprintf("h.new_status = $%d", argID))
		args = append(args, *filter.NewStatus)
		argID++
	}
	if filter.UpdatedDate != nil {
		// calendar-day match, not a range
		conditions = append(conditions, fmt.Sprintf("h.updated_date::date = $%d::date", argID))
		args = append(args, *filter.UpdatedDate)
		argID++
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	baseQuery += " ORDER BY h.id ASC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []models.TaskHistory
	for rows.Next() {
		var h models.TaskHistory
		if err := rows.Scan(&h.ID, &h.TaskID, &h.OldStatus, &h.NewStatus, &h.UpdatedDate); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *taskHistoryRepository) FindByID(ctx context.Context, userID, taskID, id int64) (*models.TaskHistory, error) {
	query := `
		SELECT h.id, h.task_id, h.old_status, h.new_status, h.updated_date
		FROM task_history h
		JOIN tasks t ON t.id = h.task_id
		WHERE h.id = $1 AND h.task_id = $2 AND t.user_id = $3`
	h := &models.TaskHistory{}
	err := r.db.QueryRowContext(ctx, query, id, taskID, userID).Scan(
		&h.ID, &h.TaskID, &h.OldStatus, &h.NewStatus, &h.UpdatedDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return h, nil
}
