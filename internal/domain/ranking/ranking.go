// Package ranking computes weekly rank, percentage and point-share
// distributions from raw bet records.
package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harrytothemoon/lbet/internal/domain/model"
)

// maskVisiblePrefix and maskVisibleSuffix control how much of a player
// ID stays literal when masked for display.
const (
	maskVisiblePrefix = 2
	maskVisibleSuffix = 1
)

// ComputeRankings sums all bet amounts into a weekly total, sorts a copy
// of records by bet amount descending (stable, so ties keep their input
// order) and assigns a dense 1-based rank to every player.
//
// A zero total is not an error: every entry's percentage and points are
// defined as zero so an empty or all-zero week never divides by zero.
func ComputeRankings(records []model.BetRecord, weeklyPointsPool float64) model.WeekRankingResult {
	var totalBetAmount float64
	for _, r := range records {
		totalBetAmount += r.BetAmount
	}

	sorted := make([]model.BetRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BetAmount > sorted[j].BetAmount
	})

	rankings := make([]model.RankedEntry, len(sorted))
	for i, rec := range sorted {
		var percentage, points float64
		if totalBetAmount > 0 {
			percentage = rec.BetAmount / totalBetAmount * 100
			points = rec.BetAmount / totalBetAmount * weeklyPointsPool
		}
		rankings[i] = model.RankedEntry{
			Rank:           i + 1,
			PlayerID:       rec.PlayerID,
			MaskedPlayerID: MaskPlayerID(rec.PlayerID),
			BetAmount:      rec.BetAmount,
			Percentage:     FormatPercentage(percentage),
			Points:         points,
		}
	}

	return model.WeekRankingResult{
		Rankings:         rankings,
		TotalBetAmount:   totalBetAmount,
		TotalPlayers:     len(rankings),
		WeeklyPointsPool: weeklyPointsPool,
	}
}

// FindPlayerRank returns the entry whose player ID matches searchID after
// trimming whitespace, ignoring case. Exact match only; a miss returns nil.
func FindPlayerRank(rankings []model.RankedEntry, searchID string) *model.RankedEntry {
	normalized := strings.ToLower(strings.TrimSpace(searchID))
	for i := range rankings {
		if strings.ToLower(rankings[i].PlayerID) == normalized {
			return &rankings[i]
		}
	}
	return nil
}

// MaskPlayerID hides the middle of a player ID for public display.
// IDs of three characters or fewer are returned unmasked; longer IDs
// keep the first two and last one character literal.
func MaskPlayerID(playerID string) string {
	runes := []rune(playerID)
	if len(runes) <= maskVisiblePrefix+maskVisibleSuffix {
		return playerID
	}
	return string(runes[:maskVisiblePrefix]) +
		strings.Repeat("*", len(runes)-maskVisiblePrefix-maskVisibleSuffix) +
		string(runes[len(runes)-maskVisibleSuffix:])
}

// FormatPercentage renders a percentage as a fixed 2-decimal string.
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.2f", p)
}
