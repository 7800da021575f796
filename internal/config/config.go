// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() defaults overlaid by file and env in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const weekPeriodLayout = "2006-01-02 15:04:05"

// WeekPeriod bounds one activity week and carries its point pool.
type WeekPeriod struct {
	// Start and End use the "2006-01-02 15:04:05" layout in local time.
	Start string `koanf:"start"`
	End   string `koanf:"end"`

	// PointsPool is the fixed point budget distributed pro-rata by bet share.
	PointsPool float64 `koanf:"points_pool"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SheetID identifies the spreadsheet holding weekly bet exports.
	SheetID string `koanf:"sheet_id"`

	// WeekGIDs maps week numbers to spreadsheet tab identifiers.
	// Keys are strings because they arrive through YAML/env layers.
	WeekGIDs map[string]int64 `koanf:"week_gids"`

	// WeekPeriods maps week numbers to their date ranges and point pools.
	WeekPeriods map[string]WeekPeriod `koanf:"week_periods"`

	// DailyUpdateTime is the HH:MM instant the upstream sheet refreshes;
	// the daily-bucket cache policy rolls over at this time.
	DailyUpdateTime string `koanf:"daily_update_time"`

	// APIBaseURL is the bet-summary API proxy base URL.
	APIBaseURL string `koanf:"api_base_url"`

	// APIMode selects the upstream response shape: summary or detail.
	APIMode string `koanf:"api_mode"`

	// APIPageSize is the detail-mode page size.
	APIPageSize int `koanf:"api_page_size"`

	// LiveCacheTTLMinutes bounds how long live API results stay cached.
	LiveCacheTTLMinutes int `koanf:"live_cache_ttl_minutes"`

	// CachePrefix namespaces this deployment's cache keys.
	CachePrefix string `koanf:"cache_prefix"`

	// CacheRetention is how many namespace keys survive quota eviction.
	CacheRetention int `koanf:"cache_retention"`

	// CacheCapacityBytes bounds the in-memory cache substrate. Zero is unlimited.
	CacheCapacityBytes int `koanf:"cache_capacity_bytes"`

	// CumulativeRanks toggles the cross-week rank recomputation; some
	// deployments only display the best weekly rank.
	CumulativeRanks bool `koanf:"cumulative_ranks"`
}

// New creates a Config with defaults mirroring a seven-week activity.
func New() *Config {
	const defaultPool = 2_000_000

	periods := make(map[string]WeekPeriod, 7)
	start := time.Date(2025, 11, 13, 0, 0, 0, 0, time.Local)
	for week := 1; week <= 7; week++ {
		periods[strconv.Itoa(week)] = WeekPeriod{
			Start:      start.Format(weekPeriodLayout),
			End:        start.AddDate(0, 0, 7).Add(-time.Second).Format(weekPeriodLayout),
			PointsPool: defaultPool,
		}
		start = start.AddDate(0, 0, 7)
	}

	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		WeekGIDs:            map[string]int64{"1": 0},
		WeekPeriods:         periods,
		DailyUpdateTime:     "09:00",
		APIMode:             "summary",
		APIPageSize:         2500,
		LiveCacheTTLMinutes: 5,
		CachePrefix:         "lbet",
		CacheRetention:      20,
		CumulativeRanks:     true,
	}
}

// GID returns the spreadsheet tab identifier for week.
func (c *Config) GID(week int) (int64, bool) {
	gid, ok := c.WeekGIDs[strconv.Itoa(week)]
	return gid, ok
}

// Period returns the configured period for week.
func (c *Config) Period(week int) (WeekPeriod, bool) {
	p, ok := c.WeekPeriods[strconv.Itoa(week)]
	return p, ok
}

// Weeks returns all configured week numbers in ascending order.
func (c *Config) Weeks() []int {
	weeks := make([]int, 0, len(c.WeekPeriods))
	for k := range c.WeekPeriods {
		if w, err := strconv.Atoi(k); err == nil {
			weeks = append(weeks, w)
		}
	}
	sort.Ints(weeks)
	return weeks
}

// CurrentWeek returns the week whose period contains now, or the first
// configured week when none does.
func (c *Config) CurrentWeek(now time.Time) int {
	weeks := c.Weeks()
	for _, week := range weeks {
		p := c.WeekPeriods[strconv.Itoa(week)]
		start, end, err := p.Bounds()
		if err != nil {
			continue
		}
		if !now.Before(start) && !now.After(end) {
			return week
		}
	}
	if len(weeks) > 0 {
		return weeks[0]
	}
	return 1
}

// Bounds parses the period's start and end instants.
func (p WeekPeriod) Bounds() (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(weekPeriodLayout, p.Start, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %q: %w", ErrInvalidConfig, p.Start, err)
	}
	end, err := time.ParseInLocation(weekPeriodLayout, p.End, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q: %w", ErrInvalidConfig, p.End, err)
	}
	return start, end, nil
}

// DailyBoundary parses DailyUpdateTime into an hour and minute.
func (c *Config) DailyBoundary() (int, int, error) {
	parts := strings.SplitN(c.DailyUpdateTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: daily_update_time %q", ErrInvalidConfig, c.DailyUpdateTime)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: daily_update_time %q", ErrInvalidConfig, c.DailyUpdateTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: daily_update_time %q", ErrInvalidConfig, c.DailyUpdateTime)
	}
	return hour, minute, nil
}
