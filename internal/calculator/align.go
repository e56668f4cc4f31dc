package calculator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"MarketBoard/internal/model"
)

// BuildPriceTable inner-joins the per-ticker series on the trading dates
// present in every series. The result is dense (every ticker has a price on
// every remaining date) with dates strictly increasing, which is the
// invariant all downstream calculations depend on. Dates are matched by
// exact instant; the collector hands them over collapsed to UTC midnight.
func BuildPriceTable(series []model.PriceSeries) (*model.PriceTable, error) {
	if len(series) == 0 {
		return nil, errors.New("no price series to align")
	}
	seen := make(map[string]bool, len(series))
	for _, s := range series {
		if seen[s.Ticker] {
			return nil, fmt.Errorf("duplicate ticker %s in universe", s.Ticker)
		}
		seen[s.Ticker] = true
	}

	// Each series is deduplicated, so a date held by every ticker occurs
	// exactly len(series) times.
	counts := make(map[time.Time]int)
	for _, s := range series {
		for _, p := range s.Points {
			counts[p.Time]++
		}
	}
	dates := make([]time.Time, 0, len(counts))
	for d, n := range counts {
		if n == len(series) {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w across %d tickers: %s", ErrNoCommonDates, len(series), describeSpans(series))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}
	table := &model.PriceTable{
		Dates:   dates,
		Tickers: make([]string, 0, len(series)),
		Prices:  make(map[string][]float64, len(series)),
	}
	for _, s := range series {
		col := make([]float64, len(dates))
		for _, p := range s.Points {
			if i, ok := index[p.Time]; ok {
				col[i] = p.Close
			}
		}
		table.Tickers = append(table.Tickers, s.Ticker)
		table.Prices[s.Ticker] = col
	}
	return table, nil
}

// describeSpans summarizes each series' date coverage so an empty
// intersection can be diagnosed from the error alone.
func describeSpans(series []model.PriceSeries) string {
	parts := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.Points) == 0 {
			parts = append(parts, fmt.Sprintf("%s has no dates", s.Ticker))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s spans %s..%s (%d dates)",
			s.Ticker,
			s.Points[0].Time.Format("2006-01-02"),
			s.Points[len(s.Points)-1].Time.Format("2006-01-02"),
			len(s.Points)))
	}
	return strings.Join(parts, ", ")
}
