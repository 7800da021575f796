// Package cumulative aggregates weekly ranking results into running
// per-player totals and cross-week ranks.
package cumulative

import (
	"sort"
	"strings"

	"github.com/harrytothemoon/lbet/internal/domain/model"
	"github.com/harrytothemoon/lbet/internal/domain/ranking"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithCumulativeRanks toggles the cross-week dense rank recomputation.
// When disabled the aggregator still produces running totals but leaves
// every cumulative rank unset, which is all some deployments display.
func WithCumulativeRanks(enabled bool) Option {
	return func(a *Aggregator) {
		a.cumulativeRanks = enabled
	}
}

// Aggregator computes a player's cumulative history across weeks.
type Aggregator struct {
	cumulativeRanks bool
}

// New creates an Aggregator. Cross-week rank recomputation is on by default.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{cumulativeRanks: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// playerRunning tracks one player's running sums while scanning weeks.
type playerRunning struct {
	cumulativeBet    float64
	cumulativePoints float64
}

// sortedWeeks returns the week numbers of allWeeks in ascending order.
func sortedWeeks(allWeeks map[int]model.WeekRankingResult) []int {
	weeks := make([]int, 0, len(allWeeks))
	for w := range allWeeks {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

// ranksByWeek recomputes every player's cumulative points at each week
// boundary and assigns dense ranks. The result maps week -> playerID -> rank.
//
// O(weeks x players log players); player counts are bounded in the
// thousands and weeks stay in single digits, so a full recompute per
// week is cheaper than maintaining an incremental order statistic.
func (a *Aggregator) ranksByWeek(allWeeks map[int]model.WeekRankingResult) map[int]map[string]int {
	running := make(map[string]*playerRunning)
	ranksByWeek := make(map[int]map[string]int, len(allWeeks))

	var cumulativeTotalBet, cumulativePointsPool float64

	for _, week := range sortedWeeks(allWeeks) {
		weekData := allWeeks[week]
		cumulativeTotalBet += weekData.TotalBetAmount
		cumulativePointsPool += weekData.WeeklyPointsPool

		for _, entry := range weekData.Rankings {
			p := running[entry.PlayerID]
			if p == nil {
				p = &playerRunning{}
				running[entry.PlayerID] = p
			}
			p.cumulativeBet += entry.BetAmount
		}
		// Every tracked player's point share moves when the denominators do,
		// including players who sat this week out.
		for _, p := range running {
			if cumulativeTotalBet > 0 {
				p.cumulativePoints = p.cumulativeBet / cumulativeTotalBet * cumulativePointsPool
			} else {
				p.cumulativePoints = 0
			}
		}

		type standing struct {
			playerID string
			points   float64
		}
		standings := make([]standing, 0, len(running))
		for id, p := range running {
			standings = append(standings, standing{playerID: id, points: p.cumulativePoints})
		}
		sort.SliceStable(standings, func(i, j int) bool {
			if standings[i].points != standings[j].points {
				return standings[i].points > standings[j].points
			}
			return standings[i].playerID < standings[j].playerID
		})

		weekRanks := make(map[string]int, len(standings))
		for i, s := range standings {
			weekRanks[strings.ToLower(s.playerID)] = i + 1
		}
		ranksByWeek[week] = weekRanks
	}

	return ranksByWeek
}

// PlayerCumulative walks allWeeks ascending and builds the queried
// player's cumulative history: one WeeklyDetail per week in the range,
// zero-valued for weeks the player sat out, with running sums through
// each week.
//
// BestRank considers only weeks the player appears in the weekly
// rankings. BestCumulativeRank only updates on weeks the player actually
// wagered; a stale-but-favorable cumulative rank from an idle week must
// not improve it.
func (a *Aggregator) PlayerCumulative(allWeeks map[int]model.WeekRankingResult, playerID string) model.PlayerCumulative {
	var ranksByWeek map[int]map[string]int
	if a.cumulativeRanks {
		ranksByWeek = a.ranksByWeek(allWeeks)
	}
	// Rank maps are keyed by lowercased ID so lookups match the
	// case-insensitive rule FindPlayerRank applies to weekly entries.
	normalizedID := strings.ToLower(strings.TrimSpace(playerID))

	var (
		cumulativeBet        float64
		cumulativeTotalBet   float64
		cumulativePointsPool float64
		bestRank             *int
		bestCumulativeRank   *int
	)
	weeklyDetails := make([]model.WeeklyDetail, 0, len(allWeeks))

	for _, week := range sortedWeeks(allWeeks) {
		weekData := allWeeks[week]
		cumulativeTotalBet += weekData.TotalBetAmount
		cumulativePointsPool += weekData.WeeklyPointsPool

		var cumulativeRank *int
		if ranks, ok := ranksByWeek[week]; ok {
			if r, ok := ranks[normalizedID]; ok {
				cumulativeRank = &r
			}
		}

		detail := model.WeeklyDetail{
			Week:           week,
			BetAmount:      0,
			Points:         0,
			Percentage:     ranking.FormatPercentage(0),
			CumulativeRank: cumulativeRank,
		}

		if entry := ranking.FindPlayerRank(weekData.Rankings, playerID); entry != nil {
			cumulativeBet += entry.BetAmount

			rank := entry.Rank
			detail.Rank = &rank
			detail.BetAmount = entry.BetAmount
			detail.Points = entry.Points
			detail.Percentage = entry.Percentage

			if bestRank == nil || rank < *bestRank {
				bestRank = &rank
			}
			if cumulativeRank != nil && (bestCumulativeRank == nil || *cumulativeRank < *bestCumulativeRank) {
				bestCumulativeRank = cumulativeRank
			}
		}

		detail.CumulativeBet = cumulativeBet
		if cumulativeTotalBet > 0 {
			detail.CumulativePoints = cumulativeBet / cumulativeTotalBet * cumulativePointsPool
			detail.CumulativePercentage = ranking.FormatPercentage(cumulativeBet / cumulativeTotalBet * 100)
		} else {
			detail.CumulativePercentage = ranking.FormatPercentage(0)
		}

		weeklyDetails = append(weeklyDetails, detail)
	}

	var totalPoints float64
	if cumulativeTotalBet > 0 {
		totalPoints = cumulativeBet / cumulativeTotalBet * cumulativePointsPool
	}

	participated := 0
	for _, d := range weeklyDetails {
		if d.BetAmount > 0 {
			participated++
		}
	}

	return model.PlayerCumulative{
		TotalBet:           cumulativeBet,
		TotalPoints:        totalPoints,
		BestRank:           bestRank,
		BestCumulativeRank: bestCumulativeRank,
		WeeklyDetails:      weeklyDetails,
		ParticipatedWeeks:  participated,
	}
}
