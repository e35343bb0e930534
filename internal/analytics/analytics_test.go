package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/inkpress/inkpress/internal/analytics"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindowUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:30 on Jan 2 in UTC+5 is 21:30 on Jan 1 UTC
	at := time.Date(2026, 1, 2, 2, 30, 0, 0, loc)

	from, to := analytics.DayWindowUTC(at)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), to)
}

func TestYesterdayWindowUTC(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)

	from, to := analytics.YesterdayWindowUTC(now)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), to)
	assert.Equal(t, 24*time.Hour, to.Sub(from))
}

func TestYesterdayWindowUTC_MonthBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)

	from, to := analytics.YesterdayWindowUTC(now)

	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), to)
}

type recordingStore struct {
	statsWindows   [][2]time.Time
	storedStats    []domain.DailyStats
	funnelWindows  [][2]time.Time
	funnels        []domain.ConversionFunnel
	storedFunnels  []domain.ConversionFunnel
	trafficWindows [][2]time.Time
	storedTraffic  []domain.TrafficSource
}

func (r *recordingStore) StatsWindow(_ context.Context, from, to time.Time) (*domain.DailyStats, error) {
	r.statsWindows = append(r.statsWindows, [2]time.Time{from, to})
	return &domain.DailyStats{Views: 42, UniqueViews: 10}, nil
}

func (r *recordingStore) UpsertDailyStats(_ context.Context, stats *domain.DailyStats) error {
	r.storedStats = append(r.storedStats, *stats)
	return nil
}

func (r *recordingStore) FunnelWindow(_ context.Context, from, to time.Time) ([]domain.ConversionFunnel, error) {
	r.funnelWindows = append(r.funnelWindows, [2]time.Time{from, to})
	return r.funnels, nil
}

func (r *recordingStore) UpsertConversionFunnel(_ context.Context, funnel *domain.ConversionFunnel) error {
	r.storedFunnels = append(r.storedFunnels, *funnel)
	return nil
}

func (r *recordingStore) TrafficWindow(_ context.Context, from, to time.Time) ([]domain.TrafficSource, error) {
	r.trafficWindows = append(r.trafficWindows, [2]time.Time{from, to})
	return nil, nil
}

func (r *recordingStore) UpsertTrafficSource(_ context.Context, source *domain.TrafficSource) error {
	r.storedTraffic = append(r.storedTraffic, *source)
	return nil
}

func TestAggregateDailyStats_UsesYesterdayWindowAndStampsDate(t *testing.T) {
	store := &recordingStore{}
	agg := analytics.NewAggregator(store)

	require.NoError(t, agg.AggregateDailyStats(context.Background()))

	require.Len(t, store.statsWindows, 1)
	from, to := store.statsWindows[0][0], store.statsWindows[0][1]
	assert.Equal(t, 24*time.Hour, to.Sub(from))
	assert.Equal(t, time.UTC, from.Location())

	require.Len(t, store.storedStats, 1)
	assert.Equal(t, from, store.storedStats[0].Date)
	assert.Equal(t, int64(42), store.storedStats[0].Views)
}

func TestAggregateConversionFunnels_StampsWindowDate(t *testing.T) {
	store := &recordingStore{
		funnels: []domain.ConversionFunnel{{Views: 7}, {Views: 3}},
	}
	agg := analytics.NewAggregator(store)

	require.NoError(t, agg.AggregateConversionFunnels(context.Background()))

	require.Len(t, store.funnelWindows, 1)
	from := store.funnelWindows[0][0]

	require.Len(t, store.storedFunnels, 2)
	for _, f := range store.storedFunnels {
		assert.Equal(t, from, f.Date)
	}
}
