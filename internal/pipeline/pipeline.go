package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"MarketBoard/internal/calculator"
	"MarketBoard/internal/collector"
	"MarketBoard/internal/config"
	"MarketBoard/internal/model"
	"MarketBoard/internal/report"
)

// Run executes one complete build: fetch the universe, align it on common
// trading dates, derive the metrics, render. The output file is only
// touched after every prior stage has succeeded, so a failed run never
// leaves a partial or stale-overwritten dashboard.
func Run(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher) error {
	end := time.Now().UTC()
	// Ten calendar days of slack so the lookback still covers a full
	// years_back of trading days around weekends and holidays.
	start := end.AddDate(0, 0, -(365*cfg.YearsBack + 10))

	col := collector.NewCollector(fetcher, cfg.Tickers, cfg.MaxParallel)
	series, err := col.Collect(ctx, start, end)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	table, err := calculator.BuildPriceTable(series)
	if err != nil {
		return fmt.Errorf("align: %w", err)
	}
	returns, err := calculator.CalculateLogReturns(table)
	if err != nil {
		return fmt.Errorf("log returns: %w", err)
	}
	index := calculator.CalculateCumulativeIndex(returns)
	summaries, window, err := calculator.BuildSummaries(table, returns)
	if err != nil {
		return fmt.Errorf("summaries: %w", err)
	}

	dash := &model.Dashboard{
		Title:      cfg.Title,
		Source:     fetcher.Name(),
		AsOf:       table.Dates[table.Len()-1],
		WindowDays: window,
		Index:      index,
		Summaries:  summaries,
	}
	if err := report.WriteFile(cfg.Output, dash); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Printf("[INFO] dashboard written to %s: %d tickers, %d aligned days, %d-day window, data through %s",
		cfg.Output, len(table.Tickers), table.Len(), window, dash.AsOf.Format("2006-01-02"))
	return nil
}
