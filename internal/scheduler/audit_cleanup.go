package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// AuditCleanupEnqueuer hands cleanup runs to the task queue.
type AuditCleanupEnqueuer interface {
	EnqueueAuditCleanup(ctx context.Context, retentionDays int) (string, error)
}

// AuditEventCleaner deletes old audit events in-process.
type AuditEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// AuditCleanupScheduler periodically removes audit events older than the
// retention period. Runs go through the task queue when one is configured
// and are executed directly otherwise.
type AuditCleanupScheduler struct {
	schedule      string
	retentionDays int
	enqueuer      AuditCleanupEnqueuer
	cleaner       AuditEventCleaner

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a scheduler. enqueuer may be nil.
func NewAuditCleanupScheduler(schedule string, retentionDays int, enqueuer AuditCleanupEnqueuer, cleaner AuditEventCleaner) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		schedule:      schedule,
		retentionDays: retentionDays,
		enqueuer:      enqueuer,
		cleaner:       cleaner,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start registers the cleanup job and starts the cron loop. The scheduler
// stops when ctx is cancelled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.schedule == "" {
		slog.Info("audit cleanup scheduler disabled")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunNow(ctx) }); err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRun(s.schedule, time.Now())
	slog.Info("audit cleanup scheduler started",
		"schedule", s.schedule, "retention_days", s.retentionDays, "next_run", next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	slog.Info("audit cleanup scheduler stopped")
}

// IsRunning reports whether the cron loop is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow performs one cleanup run.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) {
	if s.enqueuer != nil {
		id, err := s.enqueuer.EnqueueAuditCleanup(ctx, s.retentionDays)
		if err != nil {
			slog.Error("failed to enqueue audit cleanup", "error", err)
			return
		}
		slog.Debug("audit cleanup enqueued", "task_id", id)
		return
	}

	if s.cleaner == nil {
		return
	}
	retention := time.Duration(s.retentionDays) * 24 * time.Hour
	deleted, err := s.cleaner.DeleteOldEvents(retention)
	if err != nil {
		slog.Error("audit cleanup failed", "error", err)
		return
	}
	slog.Info("cleaned up audit events", "deleted", deleted, "retention_days", s.retentionDays)
}
