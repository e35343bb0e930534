package scheduler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/inkpress/inkpress/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedules_MissingFileUsesDefaults(t *testing.T) {
	schedules, err := scheduler.LoadSchedules(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, scheduler.DefaultSchedules(), schedules)
}

func TestLoadSchedules_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dailyStats: \"30 1 * * *\"\n"), 0o644))

	schedules, err := scheduler.LoadSchedules(path)

	require.NoError(t, err)
	assert.Equal(t, "30 1 * * *", schedules.DailyStats)
	assert.Equal(t, "0 */6 * * *", schedules.ConversionFunnels)
	assert.Equal(t, "0 9 * * 1", schedules.WeeklyDigest)
}

type noopJobs struct{}

func (noopJobs) AggregateDailyStats(context.Context) error        { return nil }
func (noopJobs) AggregateConversionFunnels(context.Context) error { return nil }
func (noopJobs) AggregateTrafficSources(context.Context) error    { return nil }
func (noopJobs) SendWeeklyDigest(context.Context) (int, error)    { return 0, nil }

func TestNew_RejectsBadExpression(t *testing.T) {
	bad := scheduler.DefaultSchedules()
	bad.WeeklyDigest = "not a cron line"

	_, err := scheduler.New(bad, noopJobs{}, noopJobs{})

	assert.Error(t, err)
}

func TestNew_AcceptsDefaults(t *testing.T) {
	s, err := scheduler.New(scheduler.DefaultSchedules(), noopJobs{}, noopJobs{})

	require.NoError(t, err)
	require.NotNil(t, s)
}
