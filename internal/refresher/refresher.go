// Package refresher re-runs the dashboard's criteria on a cron schedule so
// the current result set stays fresh between visits. It refreshes whatever
// criteria produced the current set, falling back to the configured default
// search before any interactive run has happened.
package refresher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hwangga/signal-app/internal/models"
	"github.com/hwangga/signal-app/internal/monitoring"
	"github.com/hwangga/signal-app/internal/results"
)

// Runner is the pipeline surface the refresher needs.
type Runner interface {
	Run(ctx context.Context, criteria models.SearchCriteria) (*models.ResultSet, error)
}

// DigestSender mails a completed refresh. Nil disables digests.
type DigestSender interface {
	SendDigest(rs *models.ResultSet) error
}

type Refresher struct {
	schedule        string
	runner          Runner
	store           *results.Store
	monitor         *monitoring.Monitor
	sender          DigestSender
	defaultCriteria models.SearchCriteria
	cron            *cron.Cron
}

func New(schedule string, runner Runner, store *results.Store, monitor *monitoring.Monitor, sender DigestSender, defaultCriteria models.SearchCriteria) *Refresher {
	return &Refresher{
		schedule:        schedule,
		runner:          runner,
		store:           store,
		monitor:         monitor,
		sender:          sender,
		defaultCriteria: defaultCriteria,
		// Prevent overlapping refresh runs
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the cron entry and begins scheduling. Call Stop to halt.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		if err := r.RunOnce(ctx); err != nil {
			log.Printf("Error running scheduled refresh: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Printf("Refresher started with schedule: %s", r.schedule)
	r.cron.Start()
	return nil
}

func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	log.Println("Refresher stopped")
}

// RunOnce refreshes the current result set immediately.
func (r *Refresher) RunOnce(ctx context.Context) error {
	criteria, ok := r.store.Criteria()
	if !ok {
		criteria = r.defaultCriteria
	}

	startTime := time.Now()
	log.Printf("Starting scheduled refresh for %q...", criteria.Keyword)

	rs, err := r.runner.Run(ctx, criteria)
	if err != nil {
		r.monitor.RecordFailure(fmt.Errorf("scheduled refresh: %w", err), time.Since(startTime))
		return fmt.Errorf("scheduled refresh failed: %w", err)
	}

	r.store.Replace(rs)

	duration := time.Since(startTime)
	if rs.DegradedChannels > 0 {
		r.monitor.RecordDegraded(rs.Summary(), duration)
	} else {
		r.monitor.RecordSuccess(rs.Summary(), duration)
	}

	if r.sender != nil && !rs.IsEmpty() {
		if err := r.sender.SendDigest(rs); err != nil {
			log.Printf("Warning: Failed to send digest email: %v", err)
		}
	}

	return nil
}
