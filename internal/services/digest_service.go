package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

// DigestService sends periodic per-user emails summarizing task counts by
// status and advances each schedule by one day after a successful send.
type DigestService interface {
	// Run ticks until ctx is canceled, calling RunOnce each interval.
	Run(ctx context.Context, interval time.Duration)
	RunOnce(ctx context.Context) error
}

type digestService struct {
	reports repositories.EmailReportRepository
	users   repositories.UserRepository
	tasks   repositories.TaskRepository
	email   EmailService
	now     func() time.Time
}

func NewDigestService(
	reports repositories.EmailReportRepository,
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	email EmailService,
) DigestService {
	return &digestService{
		reports: reports,
		users:   users,
		tasks:   tasks,
		email:   email,
		now:     time.Now,
	}
}

func (s *digestService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[digest][worker] started: interval=%s", interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[digest][worker] stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("[digest][worker][err] %v", err)
			}
		}
	}
}

// RunOnce processes every due schedule. A failure for one user is logged and
// the pass continues with the next; the failed schedule keeps its send time
// and is retried on the next tick. A successful send advances the schedule by
// exactly 24 hours on the stored UTC instant.
func (s *digestService) RunOnce(ctx context.Context) error {
	now := s.now().UTC()

	due, err := s.reports.FindDue(ctx, now)
	if err != nil {
		return fmt.Errorf("find due schedules: %w", err)
	}

	for _, report := range due {
		user, err := s.users.FindByID(ctx, report.UserID)
		if err != nil {
			log.Printf("[digest][skip] resolve userID=%d: %v", report.UserID, err)
			continue
		}

		body, err := s.composeReport(ctx, user.ID)
		if err != nil {
			log.Printf("[digest][skip] compose for userID=%d: %v", user.ID, err)
			continue
		}

		subject := user.Username + "'s report"
		if err := s.email.SendTaskReport(user.Email, subject, body); err != nil {
			// not advanced; retried next tick
			log.Printf("[digest][skip] send to %s: %v", user.Email, err)
			continue
		}

		report.SendTime = report.SendTime.Add(24 * time.Hour)
		if err := s.reports.Update(ctx, &report); err != nil {
			log.Printf("[digest][err] advance schedule id=%d: %v", report.ID, err)
			continue
		}
		log.Printf("[digest][ok] userID=%d email=%s next=%s", user.ID, user.Email, report.SendTime.Format(time.RFC3339))
	}
	return nil
}

// composeReport builds the plain-text digest body: one count line per status
// in declaration order, each followed by a numbered task listing. The last
// enumerated status (CANCELLED) gets no digest line.
func (s *digestService) composeReport(ctx context.Context, userID int64) (string, error) {
	var b strings.Builder
	b.WriteString("Task report:\n\n\n")

	for _, status := range models.Statuses[:len(models.Statuses)-1] {
		st := status
		tasks, err := s.tasks.FindAll(ctx, models.TaskFilter{UserID: &userID, Status: &st})
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s :  %d\n", status.Label(), len(tasks))
		for i := range tasks {
			fmt.Fprintf(&b, "%d. %s\n", i+1, tasks[i].String())
		}
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
