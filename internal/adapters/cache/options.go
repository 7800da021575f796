package cache

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/harrytothemoon/lbet/pkg/logger"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithClock sets the clock used for validity evaluation. Tests inject a
// fake clock to step across cache windows.
func WithClock(clock clockwork.Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithPrefix sets the key namespace prefix, typically the site name.
func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		if prefix != "" {
			m.prefix = prefix
		}
	}
}

// WithSlidingTTL sets the sliding-window validity duration.
func WithSlidingTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.slidingTTL = ttl
		}
	}
}

// WithDailyBoundary sets the time of day the daily-bucket policy rolls
// over, matching the upstream spreadsheet's refresh schedule.
func WithDailyBoundary(hour, minute int) Option {
	return func(m *Manager) {
		if hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			m.dailyHour = hour
			m.dailyMin = minute
		}
	}
}

// WithRetention sets how many namespace keys survive an eviction pass.
func WithRetention(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retention = n
		}
	}
}

// WithLogger sets a custom logger for the manager.
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}
