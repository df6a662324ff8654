package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmstead/internal/config"
	"github.com/mamadbah2/farmstead/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// Reporter produces the texts and snapshots the scheduled jobs deliver.
type Reporter interface {
	Reminders(ctx context.Context, now time.Time) (string, error)
	WeeklyDigest(ctx context.Context, end time.Time) (string, error)
	GenerateAndStore(ctx context.Context, now time.Time) (models.DailyReport, error)
}

// Notifier delivers a message to the farm manager.
type Notifier interface {
	NotifyManager(ctx context.Context, text string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	notifier Notifier
	cfg      config.ReportingConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler running jobs in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
	s.now = func() time.Time { return time.Now().In(loc) }

	if _, err := s.cron.AddFunc(cfg.ReminderSchedule, s.runReminders); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", cfg.ReminderSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.ReportSchedule, s.runWeeklyReport); err != nil {
		return nil, fmt.Errorf("schedule weekly report %q: %w", cfg.ReportSchedule, err)
	}
	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("reminders", s.cfg.ReminderSchedule),
		zap.String("report", s.cfg.ReportSchedule),
		zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendReminders(ctx); err != nil {
		s.logger.Error("reminder job failed", zap.Error(err))
	}
}

func (s *Scheduler) runWeeklyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.SendWeeklyReport(ctx); err != nil {
		s.logger.Error("weekly report job failed", zap.Error(err))
	}
}

// SendReminders stores today's snapshot and sends the reminder list if there is one.
func (s *Scheduler) SendReminders(ctx context.Context) error {
	now := s.now()
	if _, err := s.reporter.GenerateAndStore(ctx, now); err != nil {
		s.logger.Warn("daily snapshot not stored", zap.Error(err))
	}

	text, err := s.reporter.Reminders(ctx, now)
	if err != nil {
		return fmt.Errorf("build reminders: %w", err)
	}
	if text == "" {
		s.logger.Debug("nothing to remind")
		return nil
	}
	if err := s.notifier.NotifyManager(ctx, text); err != nil {
		return fmt.Errorf("send reminders: %w", err)
	}
	s.logger.Info("reminders sent")
	return nil
}

// SendWeeklyReport builds the weekly digest and sends it to the manager.
func (s *Scheduler) SendWeeklyReport(ctx context.Context) error {
	s.logger.Info("generating weekly report")

	text, err := s.reporter.WeeklyDigest(ctx, s.now())
	if err != nil {
		return fmt.Errorf("build weekly digest: %w", err)
	}
	if err := s.notifier.NotifyManager(ctx, text); err != nil {
		return fmt.Errorf("send weekly digest: %w", err)
	}
	s.logger.Info("weekly report sent successfully")
	return nil
}
