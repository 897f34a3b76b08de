package services

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// StartScheduler runs the pending-invoice digest and the view cache sweep on
// their cron schedules. An empty schedule disables that job.
func StartScheduler(digest *DigestService, digestSchedule string, views *ViewCache, sweepSchedule string) (*cron.Cron, error) {
	c := cron.New()

	if digestSchedule != "" {
		if _, err := c.AddFunc(digestSchedule, func() {
			if err := digest.Send(context.Background()); err != nil {
				log.Printf("Pending invoice digest failed: %v", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("digest schedule %q: %w", digestSchedule, err)
		}
	}

	if sweepSchedule != "" {
		if _, err := c.AddFunc(sweepSchedule, views.Purge); err != nil {
			return nil, fmt.Errorf("view cache sweep schedule %q: %w", sweepSchedule, err)
		}
	}

	c.Start()
	log.Println("Scheduler started")
	return c, nil
}
