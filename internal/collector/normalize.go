package collector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"MarketBoard/internal/model"
)

// NormalizeSeries is the single gate between provider output and the rest
// of the pipeline: it collapses timestamps to the UTC midnight of their
// trading date, drops NaN closes (missing sessions), sorts ascending,
// deduplicates by date keeping the first occurrence, and rejects
// non-positive closes as a data-quality failure.
func NormalizeSeries(ticker string, points []model.PricePoint) ([]model.PricePoint, error) {
	out := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Close) {
			continue
		}
		if p.Close <= 0 {
			return nil, fmt.Errorf("non-positive close %g for %s on %s",
				p.Close, ticker, p.Time.UTC().Format("2006-01-02"))
		}
		out = append(out, model.PricePoint{Time: tradingDate(p.Time), Close: p.Close})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	dedup := out[:0]
	var prev time.Time
	for _, p := range out {
		if len(dedup) > 0 && p.Time.Equal(prev) {
			continue
		}
		dedup = append(dedup, p)
		prev = p.Time
	}
	return dedup, nil
}

// tradingDate collapses a bar timestamp to the UTC midnight of its day.
func tradingDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
