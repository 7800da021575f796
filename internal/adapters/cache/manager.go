package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/harrytothemoon/lbet/pkg/logger"
	"github.com/harrytothemoon/lbet/pkg/metrics"
)

// Default manager configuration constants.
const (
	defaultPrefix      = "lbet"
	defaultSlidingTTL  = 5 * time.Minute
	defaultDailyHour   = 9
	defaultDailyMinute = 0
	defaultRetention   = 20
)

// Policy selects how an entry's age is judged on read. Entries are never
// proactively expired; validity is evaluated lazily per access.
type Policy int

const (
	// Permanent entries are always valid once written. Used for fully
	// historical cumulative computations, which can never change.
	Permanent Policy = iota
	// DailyBucket entries are valid from the most recent scheduled daily
	// refresh instant until the next one: one fresh fetch per cycle.
	DailyBucket
	// SlidingWindow entries are valid for a fixed duration after the write.
	SlidingWindow
)

// entry is the stored envelope: the serialized value plus its write instant.
type entry struct {
	Value    json.RawMessage `json:"v"`
	StoredAt int64           `json:"at"` // unix milliseconds
}

// Manager layers validity policies and quota-pressure eviction over a Store.
type Manager struct {
	store      Store
	clock      clockwork.Clock
	log        logger.Logger
	prefix     string
	slidingTTL time.Duration
	dailyHour  int
	dailyMin   int
	retention  int
}

// NewManager creates a cache manager over store with configuration options.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		clock:      clockwork.NewRealClock(),
		prefix:     defaultPrefix,
		slidingTTL: defaultSlidingTTL,
		dailyHour:  defaultDailyHour,
		dailyMin:   defaultDailyMinute,
		retention:  defaultRetention,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Get()
	}
	return m
}

// Get reads key under policy and unmarshals the cached value into out.
// It returns false on a miss or a stale entry; stale entries are left in
// place to be overwritten by the caller's follow-up Set.
func (m *Manager) Get(ctx context.Context, key string, policy Policy, out any) bool {
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheMiss(policyLabel(policy))
		return false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		m.log.Warn(ctx, "discarding unreadable cache entry", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheMiss(policyLabel(policy))
		return false
	}

	if !m.valid(time.UnixMilli(e.StoredAt), policy) {
		metrics.RecordCacheMiss(policyLabel(policy))
		return false
	}

	if err := json.Unmarshal(e.Value, out); err != nil {
		m.log.Warn(ctx, "cache value does not match expected shape", logger.String("key", key), logger.Error(err))
		metrics.RecordCacheMiss(policyLabel(policy))
		return false
	}
	metrics.RecordCacheHit(policyLabel(policy))
	return true
}

// Set serializes value and writes it under key, stamping the current
// instant. On quota pressure it evicts the oldest namespace keys beyond
// the retention threshold and retries once; a second failure abandons
// the write. Callers treat the returned error as non-fatal and proceed
// without caching.
func (m *Manager) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	e := entry{Value: raw, StoredAt: m.clock.Now().UnixMilli()}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	err = m.store.Set(ctx, key, payload)
	if err == nil {
		metrics.RecordCacheWrite()
		return nil
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		return fmt.Errorf("cache write %s: %w", key, err)
	}

	m.log.Warn(ctx, "storage quota exceeded, evicting old cache entries", logger.String("key", key))
	m.evict(ctx)

	if err := m.store.Set(ctx, key, payload); err != nil {
		metrics.RecordCacheDroppedWrite()
		return fmt.Errorf("cache write %s after eviction: %w", key, err)
	}
	metrics.RecordCacheWrite()
	return nil
}

// Delete removes key.
func (m *Manager) Delete(ctx context.Context, key string) error {
	return m.store.Delete(ctx, key)
}

// evict removes the oldest namespace keys beyond the retention
// threshold, keeping the newest ones by insertion order.
func (m *Manager) evict(ctx context.Context) {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		m.log.Warn(ctx, "cache eviction scan failed", logger.Error(err))
		return
	}

	owned := keys[:0:0]
	for _, k := range keys {
		if len(k) > len(m.prefix) && k[:len(m.prefix)+1] == m.prefix+"_" {
			owned = append(owned, k)
		}
	}
	if len(owned) <= m.retention {
		return
	}

	for _, k := range owned[:len(owned)-m.retention] {
		if err := m.store.Delete(ctx, k); err != nil {
			m.log.Warn(ctx, "cache eviction delete failed", logger.String("key", k), logger.Error(err))
			continue
		}
		metrics.RecordCacheEviction()
	}
	m.log.Info(ctx, "evicted old cache entries",
		logger.Int("removed", len(owned)-m.retention),
		logger.Int("kept", m.retention),
	)
}

// valid evaluates storedAt against policy at the current instant.
func (m *Manager) valid(storedAt time.Time, policy Policy) bool {
	switch policy {
	case Permanent:
		return true
	case SlidingWindow:
		return m.clock.Now().Sub(storedAt) < m.slidingTTL
	case DailyBucket:
		now := m.clock.Now()
		next := m.nextDailyBoundary(now)
		last := next.AddDate(0, 0, -1)
		return storedAt.After(last) && now.Before(next)
	default:
		return false
	}
}

// nextDailyBoundary returns the next scheduled refresh instant after now.
func (m *Manager) nextDailyBoundary(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), m.dailyHour, m.dailyMin, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func policyLabel(p Policy) string {
	switch p {
	case Permanent:
		return "permanent"
	case DailyBucket:
		return "daily"
	case SlidingWindow:
		return "sliding"
	default:
		return "unknown"
	}
}
