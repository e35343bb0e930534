package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
)

type Store interface {
	StatsWindow(ctx context.Context, from, to time.Time) (*domain.DailyStats, error)
	UpsertDailyStats(ctx context.Context, stats *domain.DailyStats) error
	FunnelWindow(ctx context.Context, from, to time.Time) ([]domain.ConversionFunnel, error)
	UpsertConversionFunnel(ctx context.Context, funnel *domain.ConversionFunnel) error
	TrafficWindow(ctx context.Context, from, to time.Time) ([]domain.TrafficSource, error)
	UpsertTrafficSource(ctx context.Context, source *domain.TrafficSource) error
}

// Aggregator computes the periodic analytics rollups. Each rollup upserts
// by its date key, so re-running a window overwrites rather than doubles.
type Aggregator struct {
	store Store
	now   func() time.Time
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// AggregateDailyStats closes out yesterday's UTC day into one daily_stats
// row.
func (a *Aggregator) AggregateDailyStats(ctx context.Context) error {
	from, to := YesterdayWindowUTC(a.now())

	stats, err := a.store.StatsWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to compute daily stats: %w", err)
	}
	stats.Date = from

	if err := a.store.UpsertDailyStats(ctx, stats); err != nil {
		return fmt.Errorf("failed to store daily stats: %w", err)
	}

	slog.Info("Daily stats aggregated",
		"date", from.Format("2006-01-02"),
		"views", stats.Views,
		"unique_views", stats.UniqueViews,
		"revenue", stats.Revenue)
	return nil
}

// AggregateConversionFunnels recomputes today's per-article funnels. Runs
// several times a day, overwriting the same (article, date) rows.
func (a *Aggregator) AggregateConversionFunnels(ctx context.Context) error {
	from, to := DayWindowUTC(a.now())

	funnels, err := a.store.FunnelWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to compute conversion funnels: %w", err)
	}

	for i := range funnels {
		funnels[i].Date = from
		if err := a.store.UpsertConversionFunnel(ctx, &funnels[i]); err != nil {
			return fmt.Errorf("failed to store conversion funnel: %w", err)
		}
	}

	slog.Info("Conversion funnels aggregated", "date", from.Format("2006-01-02"), "articles", len(funnels))
	return nil
}

// AggregateTrafficSources rolls yesterday's referers into traffic_sources.
func (a *Aggregator) AggregateTrafficSources(ctx context.Context) error {
	from, to := YesterdayWindowUTC(a.now())

	sources, err := a.store.TrafficWindow(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to compute traffic sources: %w", err)
	}

	for i := range sources {
		sources[i].Date = from
		if err := a.store.UpsertTrafficSource(ctx, &sources[i]); err != nil {
			return fmt.Errorf("failed to store traffic source: %w", err)
		}
	}

	slog.Info("Traffic sources aggregated", "date", from.Format("2006-01-02"), "sources", len(sources))
	return nil
}
