package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the expiring-membership digest on a cron schedule
// (default "@daily", overridable via DIGEST_SCHEDULE).
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Start registers the digest job and begins the cron loop.
func (s *Scheduler) Start(schedule string, job func()) error {
	if schedule == "" {
		schedule = "@daily"
	}

	if _, err := s.cron.AddFunc(schedule, job); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started. Digest running with schedule: %s", schedule)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
