// Package app provides the core business service that implements the
// dependencies required by the HTTP API: weekly rankings, player queries
// and the cache orchestration around them.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/harrytothemoon/lbet/internal/adapters/betlog"
	"github.com/harrytothemoon/lbet/internal/adapters/cache"
	"github.com/harrytothemoon/lbet/internal/config"
	"github.com/harrytothemoon/lbet/internal/domain/blend"
	"github.com/harrytothemoon/lbet/internal/domain/cumulative"
	"github.com/harrytothemoon/lbet/internal/domain/model"
	"github.com/harrytothemoon/lbet/internal/domain/ranking"
	"github.com/harrytothemoon/lbet/pkg/logger"
	"github.com/harrytothemoon/lbet/pkg/metrics"
)

const liveTimeLayout = "2006-01-02 15:04:05"

// SheetFetcher pulls one spreadsheet tab's bet records.
type SheetFetcher interface {
	FetchWeek(ctx context.Context, gid int64) ([]model.BetRecord, error)
}

// LiveBetFetcher queries the bet-summary API for a player's live total.
type LiveBetFetcher interface {
	PlayerValidBet(ctx context.Context, playerID, startTime, endTime string) (betlog.Summary, error)
}

// PlayerResult is the answer to a player query: the week's entry plus
// the player's cumulative history through that week.
type PlayerResult struct {
	model.RankedEntry
	Cumulative *model.PlayerCumulative `json:"cumulative,omitempty"`
}

// Service orchestrates cache, fetchers and the ranking domain.
type Service struct {
	cfg    *config.Config
	sheets SheetFetcher
	betlog LiveBetFetcher
	cache  *cache.Manager
	agg    *cumulative.Aggregator
	clock  clockwork.Clock
	log    logger.Logger
}

// New constructs a Service for cfg. Fetchers and the cache manager are
// supplied through options; the aggregator defaults to the configured
// cumulative-rank mode.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
		agg:   cumulative.New(cumulative.WithCumulativeRanks(cfg.CumulativeRanks)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// CurrentWeek returns the activity week containing the present instant.
func (s *Service) CurrentWeek() int {
	return s.cfg.CurrentWeek(s.clock.Now())
}

// WeekRankings returns the ranking snapshot for week, served from the
// daily-bucket cache when fresh, otherwise fetched and recomputed from
// the spreadsheet export.
func (s *Service) WeekRankings(ctx context.Context, week int) (model.WeekRankingResult, error) {
	gid, ok := s.cfg.GID(week)
	if !ok {
		return model.WeekRankingResult{}, fmt.Errorf("%w: %d", ErrUnknownWeek, week)
	}
	period, ok := s.cfg.Period(week)
	if !ok {
		return model.WeekRankingResult{}, fmt.Errorf("%w: %d", ErrUnknownWeek, week)
	}

	key := s.cache.Key(cache.KeyDesc{Kind: cache.KindSheetWeek, Week: week})
	var cached model.WeekRankingResult
	if s.cache.Get(ctx, key, cache.DailyBucket, &cached) {
		return cached, nil
	}

	records, err := s.sheets.FetchWeek(ctx, gid)
	if err != nil {
		return model.WeekRankingResult{}, fmt.Errorf("week %d: %w", week, err)
	}

	result := ranking.ComputeRankings(records, period.PointsPool)
	metrics.UpdateRankedPlayers(result.TotalPlayers)

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.log.Warn(ctx, "proceeding without caching week rankings",
			logger.Int("week", week),
			logger.Error(err),
		)
	}
	return result, nil
}

// weekRange fetches rankings for every week in weeks. A failed week is
// logged and dropped so a single bad tab degrades the result instead of
// aborting the whole query.
func (s *Service) weekRange(ctx context.Context, weeks []int) map[int]model.WeekRankingResult {
	out := make(map[int]model.WeekRankingResult, len(weeks))
	for _, week := range weeks {
		result, err := s.WeekRankings(ctx, week)
		if err != nil {
			s.log.Warn(ctx, "skipping week in cumulative range",
				logger.Int("week", week),
				logger.Error(err),
			)
			continue
		}
		out[week] = result
	}
	return out
}

// PlayerQuery answers a player's rank-and-points question for week.
// Historical weeks come entirely from spreadsheet snapshots; the current
// week blends the player's live bet total into the snapshot.
func (s *Service) PlayerQuery(ctx context.Context, playerID string, week int) (*PlayerResult, error) {
	metrics.RecordPlayerQuery()

	if _, ok := s.cfg.Period(week); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeek, week)
	}

	if week == s.CurrentWeek() {
		return s.queryCurrentWeek(ctx, playerID, week)
	}
	return s.queryHistoricalWeek(ctx, playerID, week)
}

// queryHistoricalWeek serves a closed week from spreadsheet data only.
func (s *Service) queryHistoricalWeek(ctx context.Context, playerID string, week int) (*PlayerResult, error) {
	weekResult, err := s.WeekRankings(ctx, week)
	if err != nil {
		return nil, err
	}

	entry := ranking.FindPlayerRank(weekResult.Rankings, playerID)
	if entry == nil {
		metrics.RecordPlayerNotFound()
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	result := &PlayerResult{RankedEntry: *entry}

	cum, ok := s.historicalCumulative(ctx, playerID, week)
	if ok {
		result.Cumulative = &cum
	}
	return result, nil
}

// historicalCumulative computes the player's cumulative history through
// week. Closed weeks can never change, so a complete computation is
// cached permanently per (player, week); a partial one (some week's
// fetch failed) is returned for display but not cached.
func (s *Service) historicalCumulative(ctx context.Context, playerID string, week int) (model.PlayerCumulative, bool) {
	key := s.cache.Key(cache.KeyDesc{Kind: cache.KindCumulative, Player: playerID, Week: week})
	var cached model.PlayerCumulative
	if s.cache.Get(ctx, key, cache.Permanent, &cached) {
		return cached, true
	}

	weeks := rangeWeeks(1, week)
	allWeeks := s.weekRange(ctx, weeks)
	if len(allWeeks) == 0 {
		return model.PlayerCumulative{}, false
	}

	cum := s.agg.PlayerCumulative(allWeeks, playerID)

	if len(allWeeks) == len(weeks) {
		if err := s.cache.Set(ctx, key, cum); err != nil {
			s.log.Warn(ctx, "proceeding without caching cumulative data",
				logger.String("player", playerID),
				logger.Int("week", week),
				logger.Error(err),
			)
		}
	}
	return cum, true
}

// queryCurrentWeek blends the player's live bet total into the current
// week's spreadsheet snapshot.
func (s *Service) queryCurrentWeek(ctx context.Context, playerID string, week int) (*PlayerResult, error) {
	weekResult, err := s.WeekRankings(ctx, week)
	if err != nil {
		return nil, err
	}

	summary, err := s.liveSummary(ctx, playerID, week)
	if err != nil {
		return nil, err
	}

	liveAmount := 0.0
	if summary.Success {
		liveAmount = summary.TotalValidBet
	}

	entry := blend.CurrentWeekEntry(weekResult, playerID, liveAmount)

	cum, hasHistory := s.currentCumulative(ctx, playerID, week, entry)

	// No live bets and no prior participation: nothing to show.
	if liveAmount == 0 && !hasHistory {
		metrics.RecordPlayerNotFound()
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}

	return &PlayerResult{RankedEntry: entry, Cumulative: &cum}, nil
}

// liveSummary returns the player's live bet summary for the running
// week, cached for the sliding window so repeated queries within a few
// minutes reuse one API round trip.
func (s *Service) liveSummary(ctx context.Context, playerID string, week int) (betlog.Summary, error) {
	key := s.cache.Key(cache.KeyDesc{Kind: cache.KindLiveBet, Player: playerID, Week: week})
	var cached betlog.Summary
	if s.cache.Get(ctx, key, cache.SlidingWindow, &cached) {
		return cached, nil
	}

	period, _ := s.cfg.Period(week)
	endTime := s.clock.Now().Format(liveTimeLayout)

	summary, err := s.betlog.PlayerValidBet(ctx, playerID, period.Start, endTime)
	if err != nil {
		return betlog.Summary{}, err
	}

	// Only successful answers are worth keeping for the window.
	if summary.Success {
		if err := s.cache.Set(ctx, key, summary); err != nil {
			s.log.Warn(ctx, "proceeding without caching live summary",
				logger.String("player", playerID),
				logger.Error(err),
			)
		}
	}
	return summary, nil
}

// currentCumulative merges the live current-week entry into the
// player's history over the preceding weeks. The merged result shares
// the live summary's sliding window. The second return reports whether
// the player participated in any earlier week.
func (s *Service) currentCumulative(ctx context.Context, playerID string, week int, entry model.RankedEntry) (model.PlayerCumulative, bool) {
	key := s.cache.Key(cache.KeyDesc{Kind: cache.KindCumulativeCurrent, Player: playerID, Week: week})
	var cached model.PlayerCumulative
	if s.cache.Get(ctx, key, cache.SlidingWindow, &cached) {
		return cached, participatedBefore(cached, week)
	}

	var prev model.PlayerCumulative
	if week > 1 {
		prev = s.agg.PlayerCumulative(s.weekRange(ctx, rangeWeeks(1, week-1)), playerID)
	}

	merged := mergeCurrentWeek(prev, week, entry)

	if err := s.cache.Set(ctx, key, merged); err != nil {
		s.log.Warn(ctx, "proceeding without caching current cumulative",
			logger.String("player", playerID),
			logger.Error(err),
		)
	}
	return merged, prev.ParticipatedWeeks > 0
}

// mergeCurrentWeek appends (or replaces) the live current-week detail on
// top of the closed-week history and re-derives the totals.
func mergeCurrentWeek(prev model.PlayerCumulative, week int, entry model.RankedEntry) model.PlayerCumulative {
	merged := prev
	merged.WeeklyDetails = make([]model.WeeklyDetail, 0, len(prev.WeeklyDetails)+1)
	for _, d := range prev.WeeklyDetails {
		if d.Week != week {
			merged.WeeklyDetails = append(merged.WeeklyDetails, d)
		}
	}

	rank := entry.Rank
	detail := model.WeeklyDetail{
		Week:                 week,
		Rank:                 &rank,
		BetAmount:            entry.BetAmount,
		Points:               entry.Points,
		Percentage:           entry.Percentage,
		CumulativeBet:        prev.TotalBet + entry.BetAmount,
		CumulativePoints:     prev.TotalPoints + entry.Points,
		CumulativePercentage: lastCumulativePercentage(prev),
	}
	merged.WeeklyDetails = append(merged.WeeklyDetails, detail)

	merged.TotalBet = prev.TotalBet + entry.BetAmount
	merged.TotalPoints = prev.TotalPoints + entry.Points

	if entry.BetAmount > 0 {
		if merged.BestRank == nil || rank < *merged.BestRank {
			merged.BestRank = &rank
		}
	}

	merged.ParticipatedWeeks = 0
	for _, d := range merged.WeeklyDetails {
		if d.BetAmount > 0 {
			merged.ParticipatedWeeks++
		}
	}
	return merged
}

// lastCumulativePercentage carries the most recent closed week's share
// forward; the live week cannot state a cumulative share because the
// denominator is still moving.
func lastCumulativePercentage(prev model.PlayerCumulative) string {
	if n := len(prev.WeeklyDetails); n > 0 {
		return prev.WeeklyDetails[n-1].CumulativePercentage
	}
	return ranking.FormatPercentage(0)
}

// participatedBefore reports whether cum shows wagering in any week
// other than current.
func participatedBefore(cum model.PlayerCumulative, current int) bool {
	for _, d := range cum.WeeklyDetails {
		if d.Week != current && d.BetAmount > 0 {
			return true
		}
	}
	return false
}

// rangeWeeks returns the inclusive ascending range [from, to].
func rangeWeeks(from, to int) []int {
	if to < from {
		return nil
	}
	weeks := make([]int, 0, to-from+1)
	for w := from; w <= to; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// Stats returns service statistics for monitoring.
func (s *Service) Stats() map[string]interface{} {
	now := s.clock.Now()
	return map[string]interface{}{
		"currentWeek": s.CurrentWeek(),
		"totalWeeks":  len(s.cfg.Weeks()),
		"serverTime":  now.Format(time.RFC3339),
	}
}

// IsNotFound reports whether err is a user-facing "no data" outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound)
}
