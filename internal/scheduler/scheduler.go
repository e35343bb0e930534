// Package scheduler runs the periodic rollup and digest jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 10 * time.Minute

type Aggregator interface {
	AggregateDailyStats(ctx context.Context) error
	AggregateConversionFunnels(ctx context.Context) error
	AggregateTrafficSources(ctx context.Context) error
}

type DigestSender interface {
	SendWeeklyDigest(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron *cron.Cron
}

// New wires the three jobs onto their schedules. The daily stats slot also
// rolls up traffic sources, since both close out the same yesterday window.
func New(schedules Schedules, aggregator Aggregator, digest DigestSender) (*Scheduler, error) {
	c := cron.New()

	_, err := c.AddFunc(schedules.DailyStats, func() {
		runJob("daily_stats", func(ctx context.Context) error {
			if err := aggregator.AggregateDailyStats(ctx); err != nil {
				return err
			}
			return aggregator.AggregateTrafficSources(ctx)
		})
	})
	if err != nil {
		return nil, err
	}

	_, err = c.AddFunc(schedules.ConversionFunnels, func() {
		runJob("conversion_funnels", aggregator.AggregateConversionFunnels)
	})
	if err != nil {
		return nil, err
	}

	_, err = c.AddFunc(schedules.WeeklyDigest, func() {
		runJob("weekly_digest", func(ctx context.Context) error {
			_, err := digest.SendWeeklyDigest(ctx)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

func runJob(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := time.Now()
	if err := fn(ctx); err != nil {
		slog.Error("Scheduled job failed", "job", name, "error", err)
		return
	}
	slog.Info("Scheduled job finished", "job", name, "took", time.Since(started))
}
