// Package model contains domain models passed between layers.
package model

// BetRecord is one spreadsheet row: a player's wagered amount for a week.
// Immutable once parsed.
type BetRecord struct {
	PlayerID  string
	BetAmount float64
}

// RankedEntry is a player's position in a weekly ranking.
// Points keep full floating precision; rounding happens only at display time.
type RankedEntry struct {
	Rank           int     `json:"rank"`
	PlayerID       string  `json:"player_id"`
	MaskedPlayerID string  `json:"masked_player_id"`
	BetAmount      float64 `json:"bet_amount"`
	Percentage     string  `json:"percentage"`
	Points         float64 `json:"points"`
}

// WeekRankingResult holds one week's full ranking.
//
// Invariants: rankings are sorted by Rank ascending with no gaps,
// len(Rankings) == TotalPlayers, and the bet amounts sum to TotalBetAmount.
type WeekRankingResult struct {
	Rankings         []RankedEntry `json:"rankings"`
	TotalBetAmount   float64       `json:"total_bet_amount"`
	TotalPlayers     int           `json:"total_players"`
	WeeklyPointsPool float64       `json:"weekly_points_pool"`
}

// WeeklyDetail is one week's slice of a player's cumulative history.
// Cumulative fields are running sums through and including Week;
// CumulativeRank is the player's dense rank among all players'
// cumulative points at that week, recomputed independently per week.
type WeeklyDetail struct {
	Week                 int     `json:"week"`
	Rank                 *int    `json:"rank"`
	BetAmount            float64 `json:"bet_amount"`
	Points               float64 `json:"points"`
	Percentage           string  `json:"percentage"`
	CumulativeBet        float64 `json:"cumulative_bet"`
	CumulativePoints     float64 `json:"cumulative_points"`
	CumulativePercentage string  `json:"cumulative_percentage"`
	CumulativeRank       *int    `json:"cumulative_rank"`
}

// PlayerCumulative is a player's running totals across a range of weeks.
type PlayerCumulative struct {
	TotalBet           float64        `json:"total_bet"`
	TotalPoints        float64        `json:"total_points"`
	BestRank           *int           `json:"best_rank"`
	BestCumulativeRank *int           `json:"best_cumulative_rank"`
	WeeklyDetails      []WeeklyDetail `json:"weekly_details"`
	ParticipatedWeeks  int            `json:"participated_weeks"`
}
