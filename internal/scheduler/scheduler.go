// Package scheduler mails every user their previous month's report on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/export"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReportService is the part of the service the scheduler reads from
type ReportService interface {
	Users(ctx context.Context) ([]models.User, error)
	Statement(ctx context.Context, userID int64, p models.Period) (*models.Statement, error)
}

// ReportSender delivers a report to one user
type ReportSender interface {
	SendReport(to, username string, summary *models.Summary, statementXML []byte) error
}

// Scheduler runs the monthly report job
type Scheduler struct {
	cron   *cron.Cron
	svc    ReportService
	sender ReportSender
	log    *logrus.Logger
	now    func() time.Time
}

// New creates a scheduler; Run starts the jobs added with Schedule
func New(svc ReportService, sender ReportSender, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		sender: sender,
		log:    log,
		now:    time.Now,
	}
}

// Schedule registers the monthly report job with a standard five-field cron spec
func (s *Scheduler) Schedule(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.SendMonthlyReports(ctx); err != nil {
			s.log.Errorf("Monthly reports failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}
	s.log.Infof("Monthly reports scheduled: %s", spec)
	return nil
}

// Run starts the cron loop and blocks until ctx is done, then waits for a
// running job to finish
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// SendMonthlyReports mails each user the statement of the month before now.
// A failure for one user does not stop the others.
func (s *Scheduler) SendMonthlyReports(ctx context.Context) error {
	now := s.now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := firstOfMonth.AddDate(0, -1, 0)
	period := models.MonthPeriod(prev.Year(), prev.Month())

	users, err := s.svc.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var errs []error
	sent := 0
	for _, u := range users {
		if err := s.sendOne(ctx, u, period); err != nil {
			s.log.WithField("user_id", u.ID).Errorf("Report not sent: %v", err)
			errs = append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			continue
		}
		sent++
	}

	s.log.Infof("Monthly reports for %s: %d sent, %d failed", period, sent, len(errs))
	return errors.Join(errs...)
}

func (s *Scheduler) sendOne(ctx context.Context, u models.User, period models.Period) error {
	st, err := s.svc.Statement(ctx, u.ID, period)
	if err != nil {
		return err
	}
	xml, err := export.StatementBytes(u.Username, st)
	if err != nil {
		return err
	}
	return s.sender.SendReport(u.Email, u.Username, st.Summary, xml)
}
