// Package scheduler runs a job once a day at a fixed local time.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the scheduled work.
type Job func(ctx context.Context) error

// Config configures a Daily scheduler.
type Config struct {
	// Hour and Minute of the daily run.
	Hour   int
	Minute int
	// Location of the daily run. Default: time.Local.
	Location *time.Location
	// RunOnStartup runs the job once as soon as Run starts.
	RunOnStartup bool
	Name         string
}

// Daily runs a job every day at the configured time.
type Daily struct {
	config Config
	job    Job
	logger *slog.Logger
}

// NewDaily creates a scheduler for job.
func NewDaily(config Config, job Job) *Daily {
	if config.Name == "" {
		config.Name = "daily"
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Daily{
		config: config,
		job:    job,
		logger: slog.Default().With("component", "scheduler", "job", config.Name),
	}
}

// Spec returns the cron expression of the daily run.
func (d *Daily) Spec() string {
	return fmt.Sprintf("%d %d * * *", d.config.Minute, d.config.Hour)
}

// Next returns the first run strictly after now, in now's location.
func (d *Daily) Next(now time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(d.Spec())
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduler: %s: %w", d.Spec(), err)
	}
	return sched.Next(now), nil
}

// Run blocks until ctx is done, then waits for a running job to finish.
// Job errors are logged and do not stop the schedule.
func (d *Daily) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(d.config.Location))
	id, err := c.AddFunc(d.Spec(), func() { d.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("scheduler: %s: %w", d.Spec(), err)
	}
	if d.config.RunOnStartup {
		d.logger.Info("running job on startup")
		d.runOnce(ctx)
	}

	c.Start()
	d.logger.Info("scheduler started", "spec", d.Spec(), "next", c.Entry(id).Next)

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (d *Daily) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := d.job(ctx); err != nil {
		d.logger.Error("job failed", "error", err)
		return
	}
	d.logger.Info("job finished", "duration", time.Since(start))
}
