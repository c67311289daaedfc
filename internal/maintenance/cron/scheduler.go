package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is any nightly maintenance task.
type Job interface {
	Run(ctx context.Context) (int64, error)
}

type Scheduler struct {
	purger Job
}

func NewScheduler(purger Job) *Scheduler {
	return &Scheduler{purger: purger}
}

// Start initializes cron tasks (nightly at 12:00 AM).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runNightly()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (purging nightly at 12:00AM)")
	c.Start()
}

func (s *Scheduler) runNightly() {
	log.Println("Nightly purge started...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := s.purger.Run(ctx)
	if err != nil {
		log.Printf("Nightly purge failed: %v", err)
		return
	}

	log.Printf("Nightly purge finished, %d rows removed", n)
}
