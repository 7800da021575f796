// Command sheetcheck probes a spreadsheet tab and prints the parsed
// ranking summary. Useful for verifying gid mappings before a week goes
// live.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/harrytothemoon/lbet/internal/adapters/sheets"
	"github.com/harrytothemoon/lbet/internal/domain/ranking"
	"github.com/harrytothemoon/lbet/pkg/logger"
)

const defaultProbeTimeout = 30 * time.Second

func main() {
	var (
		sheetID = flag.String("sheet", "", "Spreadsheet identifier")
		gid     = flag.Int64("gid", 0, "Tab identifier to probe")
		pool    = flag.Float64("pool", 100000, "Weekly points pool for the summary")
		top     = flag.Int("top", 10, "Number of leading entries to print")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	if *sheetID == "" {
		os.Stderr.WriteString("missing -sheet\n")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	client := sheets.NewClient(*sheetID)
	records, err := client.FetchWeek(ctx, *gid)
	if err != nil {
		log.Error(ctx, "fetch failed", logger.Error(err))
		os.Exit(1)
	}

	result := ranking.ComputeRankings(records, *pool)
	log.Info(ctx, "tab parsed",
		logger.Int("players", result.TotalPlayers),
		logger.Float64("totalBet", result.TotalBetAmount),
	)

	n := *top
	if n > len(result.Rankings) {
		n = len(result.Rankings)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result.Rankings[:n])
}
