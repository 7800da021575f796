package app

import (
	"github.com/jonboulle/clockwork"

	"github.com/harrytothemoon/lbet/internal/adapters/cache"
	"github.com/harrytothemoon/lbet/internal/domain/cumulative"
	"github.com/harrytothemoon/lbet/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the clock used to tell the current week and to stamp
// live query ranges. Tests inject a fake clock.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSheets sets the spreadsheet fetcher.
func WithSheets(fetcher SheetFetcher) Option {
	return func(s *Service) {
		if fetcher != nil {
			s.sheets = fetcher
		}
	}
}

// WithBetlog sets the live bet-summary fetcher.
func WithBetlog(fetcher LiveBetFetcher) Option {
	return func(s *Service) {
		if fetcher != nil {
			s.betlog = fetcher
		}
	}
}

// WithCache sets the cache manager.
func WithCache(manager *cache.Manager) Option {
	return func(s *Service) {
		if manager != nil {
			s.cache = manager
		}
	}
}

// WithAggregator sets the cumulative aggregator.
func WithAggregator(agg *cumulative.Aggregator) Option {
	return func(s *Service) {
		if agg != nil {
			s.agg = agg
		}
	}
}
