package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"PodVault/internal/metrics"
	"PodVault/internal/notifier"
	"PodVault/internal/pod"
)

// Scheduler manages the vault's periodic tasks: committing float to the
// yield source, pulling and distributing rewards, and status snapshots.
type Scheduler struct {
	Cron     *cron.Cron
	Pod      *pod.Pod
	Notifier *notifier.WebhookNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pod.Pod, n *notifier.WebhookNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Pod:      p,
		Notifier: n,
		Ctx:      ctx,
	}
}

// RegisterAll registers the batch, drop, and status tasks.
func (s *Scheduler) RegisterAll(batchCron, dropCron, statusCron string) error {
	if _, err := s.Cron.AddFunc(batchCron, s.batchTask); err != nil {
		return fmt.Errorf("register batch task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dropCron, s.dropTask); err != nil {
		return fmt.Errorf("register drop task: %w", err)
	}
	if _, err := s.Cron.AddFunc(statusCron, s.statusTask); err != nil {
		return fmt.Errorf("register status task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunBatchNow executes the batch task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunBatchNow() {
	s.batchTask()
}

func (s *Scheduler) batchTask() {
	log.Println("[INFO] running batch task")
	rec, err := s.Pod.BatchAll(s.Ctx)
	if err != nil {
		// An empty float between deposits is routine, not an incident.
		if errors.Is(err, pod.ErrZeroFloatBalance) {
			log.Println("[INFO] batch task: no float to commit")
			return
		}
		log.Printf("[ERROR] batch task: %v", err)
		metrics.OperationFailures.WithLabelValues("batch", err.Error()).Inc()
		s.trySend(fmt.Sprintf("Batch failed: %v", err))
		return
	}
	metrics.BatchesTotal.Inc()
	metrics.ObserveStatus(s.Pod.Status())
	s.trySend(notifier.FormatBatchSummary(rec))
}

func (s *Scheduler) dropTask() {
	log.Println("[INFO] running drop task")
	forwarded, err := s.Pod.Drop(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] drop task: %v", err)
		metrics.OperationFailures.WithLabelValues("drop", err.Error()).Inc()
		s.trySend(fmt.Sprintf("Drop failed: %v", err))
		return
	}
	metrics.DropsTotal.Inc()
	metrics.ObserveStatus(s.Pod.Status())
	if forwarded.IsPositive() {
		s.trySend(notifier.FormatDropSummary(forwarded))
	}
}

func (s *Scheduler) statusTask() {
	log.Println("[INFO] running status task")
	status := s.Pod.Status()
	metrics.ObserveStatus(status)
	s.trySend(notifier.FormatVaultStatus(status))
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
