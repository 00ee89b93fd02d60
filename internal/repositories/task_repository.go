package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"taskmanager/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, userID, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	SoftDelete(ctx context.Context, userID, id int64) error

	// ShiftPriorities makes room for a new task at the given priority:
	// every non-deleted task of the user at that priority or above moves up by one.
	ShiftPriorities(ctx context.Context, userID int64, priority int) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, completed, deleted, priority, status, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }, t *models.Task) error {
	return row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.Deleted,
		&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, completed, priority, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Completed,
		task.Priority, task.Status, task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, userID, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2 AND deleted = FALSE`
	task := &models.Task{}
	if err := scanTask(r.db.QueryRowContext(ctx, query, id, userID), task); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{"deleted = FALSE"}
	args := []interface{}{}
	argID := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argID))
		args = append(args, *filter.UserID)
		argID++
	}
	if filter.Title != nil {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argID))
		args = append(args, "%"+*filter.Title+"%")
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Completed != nil {
		conditions = append(conditions, fmt.Sprintf("completed = $%d", argID))
		args = append(args, *filter.Completed)
		argID++
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	baseQuery += " ORDER BY priority DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := scanTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, completed=$3, priority=$4, status=$5, updated_at=$6
		WHERE id=$7 AND deleted = FALSE`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Completed, task.Priority,
		task.Status, task.UpdatedAt, task.ID,
	)
	return err
}

func (r *taskRepository) SoftDelete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted = FALSE`,
		id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepository) ShiftPriorities(ctx context.Context, userID int64, priority int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET priority = priority + 1 WHERE user_id = $1 AND deleted = FALSE AND priority >= $2`,
		userID, priority)
	return err
}
