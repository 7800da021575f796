package betlog

import (
	"context"
	"encoding/json"
)

const summaryEndpoint = "/partner-api/bet_log_summary"

// dayTotals is one date bucket inside the aggregate response.
type dayTotals struct {
	TotalValidAmount float64 `json:"total_valid_amount"`
}

// summaryResponse covers both the current envelope and the legacy flat
// shape that put the item map at the top level.
type summaryResponse struct {
	Success bool                 `json:"success"`
	Data    json.RawMessage      `json:"data"`
	Item    map[string]dayTotals `json:"item"`
	Account string               `json:"account"`
}

// summaryData is the current envelope's payload. Some deployments nest
// the date map under "item", others serve it directly; the raw decode in
// fetchSummary tries both.
type summaryData struct {
	Account string               `json:"account"`
	Item    map[string]dayTotals `json:"item"`
}

// fetchSummary queries the per-day aggregate endpoint and sums every
// date bucket's valid amount into one total.
func (c *Client) fetchSummary(ctx context.Context, playerID, startTime, endTime string) (Summary, error) {
	params := map[string]string{
		"account":    playerID,
		"start_time": startTime,
		"end_time":   endTime,
	}

	var resp summaryResponse
	if err := c.get(ctx, summaryEndpoint, params, &resp); err != nil {
		return Summary{}, err
	}

	if resp.Success && len(resp.Data) > 0 {
		account, days := decodeSummaryData(resp.Data)
		if account == "" {
			account = playerID
		}
		return Summary{
			Success:       true,
			TotalValidBet: sumDays(days),
			Account:       account,
		}, nil
	}

	// Legacy shape: item map directly at the top level.
	if len(resp.Item) > 0 {
		return Summary{
			Success:       true,
			TotalValidBet: sumDays(resp.Item),
			Account:       resp.Account,
		}, nil
	}

	// Successful query, no data: the player placed no bets in range.
	return Summary{Success: false, Account: playerID}, nil
}

// decodeSummaryData accepts either {"account":..,"item":{date:..}} or a
// bare {date: {...}} map.
func decodeSummaryData(raw json.RawMessage) (string, map[string]dayTotals) {
	var envelope summaryData
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Item) > 0 {
		return envelope.Account, envelope.Item
	}

	var flat map[string]dayTotals
	if err := json.Unmarshal(raw, &flat); err == nil {
		return "", flat
	}
	return "", nil
}

func sumDays(days map[string]dayTotals) float64 {
	var total float64
	for _, d := range days {
		total += d.TotalValidAmount
	}
	return total
}
