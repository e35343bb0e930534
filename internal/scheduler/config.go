package scheduler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Schedules holds the cron expressions for the background jobs. Any field
// left empty falls back to its default.
type Schedules struct {
	DailyStats        string `yaml:"dailyStats"`
	ConversionFunnels string `yaml:"conversionFunnels"`
	WeeklyDigest      string `yaml:"weeklyDigest"`
}

func DefaultSchedules() Schedules {
	return Schedules{
		DailyStats:        "0 0 * * *",
		ConversionFunnels: "0 */6 * * *",
		WeeklyDigest:      "0 9 * * 1",
	}
}

// LoadSchedules reads schedule overrides from a yaml file. A missing file
// is not an error; the defaults apply.
func LoadSchedules(path string) (Schedules, error) {
	defaults := DefaultSchedules()
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return Schedules{}, fmt.Errorf("failed to read schedule config: %w", err)
	}

	var loaded Schedules
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return Schedules{}, fmt.Errorf("failed to parse schedule config: %w", err)
	}

	if loaded.DailyStats == "" {
		loaded.DailyStats = defaults.DailyStats
	}
	if loaded.ConversionFunnels == "" {
		loaded.ConversionFunnels = defaults.ConversionFunnels
	}
	if loaded.WeeklyDigest == "" {
		loaded.WeeklyDigest = defaults.WeeklyDigest
	}
	return loaded, nil
}
