package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/robfig/cron/v3"
)

// RebuildFunc runs one complete dashboard build.
type RebuildFunc func(ctx context.Context) error

// Scheduler triggers dashboard rebuilds on a cron schedule. Each run is a
// full fetch-to-render pass emitting a fresh static file; a failed run is
// logged and the schedule keeps going. A firing that lands while a rebuild
// is still in flight is skipped, never run concurrently.
type Scheduler struct {
	Cron    *cron.Cron
	Ctx     context.Context
	Rebuild RebuildFunc

	job cron.Job // rebuild wrapped with the overlap guard
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, rebuild RebuildFunc) *Scheduler {
	s := &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Ctx:     ctx,
		Rebuild: rebuild,
	}
	// Overlapping rebuilds would race on the output file. RunNow shares the
	// same wrapped job, so manual and scheduled triggers exclude each other.
	skipLog := cron.PrintfLogger(log.New(os.Stderr, "[WARN] rebuild overlap: ", log.LstdFlags|log.Lmsgprefix))
	s.job = cron.NewChain(cron.SkipIfStillRunning(skipLog)).Then(cron.FuncJob(s.runRebuild))
	return s
}

// Register adds the rebuild task under the given 6-field cron expression.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddJob(spec, s.job); err != nil {
		return fmt.Errorf("register rebuild task: %w", err)
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

// RunNow executes the rebuild immediately (for manual trigger / RUN_ON_START).
// It goes through the same overlap guard as scheduled firings.
func (s *Scheduler) RunNow() {
	s.job.Run()
}

func (s *Scheduler) runRebuild() {
	log.Println("[INFO] running scheduled rebuild")
	if err := s.Rebuild(s.Ctx); err != nil {
		log.Printf("[ERROR] scheduled rebuild: %v", err)
	}
}
