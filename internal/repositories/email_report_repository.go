package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskmanager/internal/models"
)

type EmailReportRepository interface {
	// EnsureForUser creates the user's report schedule if it does not exist
	// yet. Idempotent; the default schedule is due immediately, in UTC.
	EnsureForUser(ctx context.Context, userID int64) error
	FindByUser(ctx context.Context, userID int64) (*models.EmailTaskReport, error)
	// FindDue returns every schedule whose send time is at or before now.
	FindDue(ctx context.Context, now time.Time) ([]models.EmailTaskReport, error)
	Update(ctx context.Context, report *models.EmailTaskReport) error
}

type emailReportRepository struct {
	db *sql.DB
}

func NewEmailReportRepository(db *sql.DB) EmailReportRepository {
	return &emailReportRepository{db: db}
}

func (r *emailReportRepository) EnsureForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_task_reports (user_id, send_time, time_zone)
		 VALUES ($1, NOW(), 'UTC')
		 ON CONFLICT (user_id) DO NOTHING`,
		userID)
	return err
}

func (r *emailReportRepository) FindByUser(ctx context.Context, userID int64) (*models.EmailTaskReport, error) {
	report := &models.EmailTaskReport{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, send_time, time_zone FROM email_task_reports WHERE user_id = $1`,
		userID).Scan(&report.ID, &report.UserID, &report.SendTime, &report.TimeZone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return report, nil
}

func (r *emailReportRepository) FindDue(ctx context.Context, now time.Time) ([]models.EmailTaskReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, send_time, time_zone FROM email_task_reports WHERE send_time <= $1 ORDER BY send_time ASC`,
		now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.EmailTaskReport
	for rows.Next() {
		var report models.EmailTaskReport
		if err := rows.Scan(&report.ID, &report.UserID, &report.SendTime, &report.TimeZone); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (r *emailReportRepository) Update(ctx context.Context, report *models.EmailTaskReport) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE email_task_reports SET send_time = $1, time_zone = $2 WHERE id = $3`,
		report.SendTime, report.TimeZone, report.ID)
	return err
}
