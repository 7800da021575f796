// Package blend substitutes a freshly fetched live bet total for the
// current week in place of the stale spreadsheet snapshot.
package blend

import (
	"github.com/harrytothemoon/lbet/internal/domain/model"
	"github.com/harrytothemoon/lbet/internal/domain/ranking"
)

// CurrentWeekEntry computes a ranked entry for liveBetAmount against the
// unmodified spreadsheet totals of weekRanking.
//
// The denominator stays the snapshot's TotalBetAmount even when the live
// player also appears in the snapshot. That double-counts their own
// historical contribution while using only the live numerator; prize
// determination downstream depends on this behavior, so it is kept as is.
//
// The rank is an insertion point found by linear scan over the already
// descending rankings: the candidate rank advances past every entry that
// strictly exceeds liveBetAmount and stops at the first that does not.
func CurrentWeekEntry(weekRanking model.WeekRankingResult, playerID string, liveBetAmount float64) model.RankedEntry {
	var percentage, points float64
	if weekRanking.TotalBetAmount > 0 {
		percentage = liveBetAmount / weekRanking.TotalBetAmount * 100
		points = liveBetAmount / weekRanking.TotalBetAmount * weekRanking.WeeklyPointsPool
	}

	rank := 1
	for _, entry := range weekRanking.Rankings {
		if liveBetAmount < entry.BetAmount {
			rank++
		} else {
			break
		}
	}

	return model.RankedEntry{
		Rank:           rank,
		PlayerID:       playerID,
		MaskedPlayerID: ranking.MaskPlayerID(playerID),
		BetAmount:      liveBetAmount,
		Percentage:     ranking.FormatPercentage(percentage),
		Points:         points,
	}
}
