package betlog

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/harrytothemoon/lbet/pkg/logger"
	"github.com/harrytothemoon/lbet/pkg/metrics"
)

const detailEndpoint = "/bet-detail"

// detailRequest is the paginated bet-detail query body.
type detailRequest struct {
	Username     string `json:"username"`
	GameTypeList []int  `json:"gameTypeList"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	PageNum      int    `json:"pageNum"`
	PageSize     int    `json:"pageSize"`
}

// flexFloat decodes a JSON number or a numeric string; the upstream is
// inconsistent about which it serves for amounts.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		// The upstream occasionally serves unparseable amounts; they
		// count as zero rather than failing the whole page.
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type detailRow struct {
	ValidBetAmount flexFloat `json:"validBetAmount"`
}

type detailPagination struct {
	TotalPage int `json:"totalPage"`
}

type detailValue struct {
	DataList   []detailRow      `json:"dataList"`
	Pagination detailPagination `json:"pagination"`
}

type detailResponse struct {
	Success bool         `json:"success"`
	Value   *detailValue `json:"value"`
}

// fetchDetail pulls every page of the player's bet-detail rows and sums
// their valid amounts. The first request reveals the total page count;
// remaining pages are fetched concurrently and joined before summing.
func (c *Client) fetchDetail(ctx context.Context, playerID, startTime, endTime string) (Summary, error) {
	body := detailRequest{
		Username:     playerID,
		GameTypeList: c.gameTypes,
		StartTime:    startTime,
		EndTime:      endTime,
		PageNum:      1,
		PageSize:     c.pageSize,
	}

	var first detailResponse
	if err := c.post(ctx, detailEndpoint, body, &first); err != nil {
		return Summary{}, err
	}
	metrics.RecordBetlogPages(1)

	if !first.Success || first.Value == nil {
		return Summary{Success: false, Account: playerID}, nil
	}

	total := sumRows(first.Value.DataList)
	totalPages := first.Value.Pagination.TotalPage
	if totalPages <= 1 {
		return Summary{Success: true, TotalValidBet: total, Account: playerID}, nil
	}

	// Fan out the remaining pages in parallel and join before summing.
	// A failed page degrades the total rather than failing the query.
	pageTotals := make([]float64, totalPages+1)
	var wg sync.WaitGroup
	for page := 2; page <= totalPages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()

			pageBody := body
			pageBody.PageNum = page

			var resp detailResponse
			if err := c.post(ctx, detailEndpoint, pageBody, &resp); err != nil {
				c.log.Warn(ctx, "bet-detail page fetch failed",
					logger.Int("page", page),
					logger.Error(err),
				)
				return
			}
			metrics.RecordBetlogPages(1)
			if resp.Success && resp.Value != nil {
				pageTotals[page] = sumRows(resp.Value.DataList)
			}
		}(page)
	}
	wg.Wait()

	for _, t := range pageTotals {
		total += t
	}

	return Summary{Success: true, TotalValidBet: total, Account: playerID}, nil
}

func sumRows(rows []detailRow) float64 {
	var total float64
	for _, r := range rows {
		total += float64(r.ValidBetAmount)
	}
	return total
}
