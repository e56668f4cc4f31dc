package model

import "time"

// PricePoint is one daily observation: the trading date (UTC midnight) and
// the split/dividend-adjusted close.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries holds the normalized daily closes for one ticker.
// Invariants: dates strictly increasing, no duplicates, every Close > 0.
type PriceSeries struct {
	Ticker    string
	Points    []PricePoint
	FetchedAt time.Time
}

// PriceTable is the inner join of all tracked tickers on their common
// trading dates. Dense: every ticker has a price on every date, and Dates
// is strictly increasing.
type PriceTable struct {
	Dates   []time.Time
	Tickers []string
	Prices  map[string][]float64
}

// Len returns the number of aligned trading dates.
func (t *PriceTable) Len() int { return len(t.Dates) }

// ReturnTable holds one-lag log returns derived from a PriceTable. It has
// one row fewer than its source; Dates[i] is the date the return is
// realized on.
type ReturnTable struct {
	Dates   []time.Time
	Tickers []string
	Returns map[string][]float64
}

// Len returns the number of return rows.
func (t *ReturnTable) Len() int { return len(t.Dates) }

// IndexTable is the cumulative performance index rebased to 100, derived
// from a ReturnTable and shaped like it.
type IndexTable struct {
	Dates   []time.Time
	Tickers []string
	Levels  map[string][]float64
}

// Len returns the number of index rows.
func (t *IndexTable) Len() int { return len(t.Dates) }

// TickerSummary carries the trailing-window scalars for one ticker.
// TotalReturn and AnnualizedVol are fractions (0.25 = 25%). WindowDays is
// the effective window so callers can tell when less than a full trading
// year backs the numbers.
type TickerSummary struct {
	Ticker        string
	TotalReturn   float64
	AnnualizedVol float64
	WindowDays    int
}

// Dashboard is everything the renderer needs to produce the report.
type Dashboard struct {
	Title      string
	Source     string // fetcher name, mapped to an attribution label
	AsOf       time.Time
	WindowDays int
	Index      *IndexTable
	Summaries  []TickerSummary
}
