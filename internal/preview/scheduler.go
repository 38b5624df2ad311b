package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs periodic rebuilds on gocron.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a stopped scheduler.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Every schedules task at a fixed interval. Overlapping runs are skipped.
func (s *Scheduler) Every(interval time.Duration, name string, task func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic job %s: %w", name, err)
	}
	return job.ID().String(), nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting rebuild scheduler", slog.Int("jobs", len(s.scheduler.Jobs())))
	s.scheduler.Start()
}

// Stop waits for running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error { return s.scheduler.Shutdown() }
