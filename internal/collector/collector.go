package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"MarketBoard/internal/model"
)

// MockFetcher returns deterministic synthetic data for development and
// testing. Points overrides the generated series per ticker; Errs injects
// per-ticker failures.
type MockFetcher struct {
	Points map[string][]model.PricePoint
	Errs   map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	if err := m.Errs[ticker]; err != nil {
		return nil, err
	}
	if points, ok := m.Points[ticker]; ok {
		return points, nil
	}
	return generateMockPoints(ticker, start, end), nil
}

// generateMockPoints builds a weekday-only close series with a mild drift
// and a per-ticker wobble. Everything derives from the ticker name and the
// date range, so reruns produce identical data.
func generateMockPoints(ticker string, start, end time.Time) []model.PricePoint {
	seed := 0
	for _, c := range ticker {
		seed = seed*31 + int(c)
	}
	if seed < 0 {
		seed = -seed
	}
	base := 50 + float64(seed%200)

	var points []model.PricePoint
	i := 0
	for d := tradingDate(start); !d.After(tradingDate(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		wobble := 0.02 * math.Sin(float64(i)/float64(5+seed%7))
		points = append(points, model.PricePoint{
			Time:  d,
			Close: base * (1 + 0.0004*float64(i) + wobble),
		})
		i++
	}
	return points
}

// Collector fans per-ticker fetches out over the universe and joins them
// all before any result is used.
type Collector struct {
	Fetcher     Fetcher
	Tickers     []string
	MaxParallel int
}

// NewCollector creates a new Collector. maxParallel caps in-flight fetches;
// 1 makes the fan-out effectively serial.
func NewCollector(fetcher Fetcher, tickers []string, maxParallel int) *Collector {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Collector{Fetcher: fetcher, Tickers: tickers, MaxParallel: maxParallel}
}

// Collect fetches and normalizes daily bars for every ticker in the
// universe over [start, end]. Results come back in universe order only
// after every fetch has finished; any single failure fails the whole
// collection, so a partial universe never reaches alignment.
func (c *Collector) Collect(ctx context.Context, start, end time.Time) ([]model.PriceSeries, error) {
	series := make([]model.PriceSeries, len(c.Tickers))
	errs := make([]error, len(c.Tickers))

	sem := make(chan struct{}, c.MaxParallel)
	var wg sync.WaitGroup
	for i, ticker := range c.Tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			points, err := c.Fetcher.FetchDailyBars(ctx, ticker, start, end)
			if err != nil {
				errs[i] = fmt.Errorf("fetch %s: %w", ticker, err)
				return
			}
			points, err = NormalizeSeries(ticker, points)
			if err != nil {
				errs[i] = err
				return
			}
			if len(points) == 0 {
				errs[i] = fmt.Errorf("no usable bars for %s between %s and %s",
					ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))
				return
			}
			series[i] = model.PriceSeries{Ticker: ticker, Points: points, FetchedAt: time.Now().UTC()}
		}(i, ticker)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, s := range series {
		log.Printf("[INFO] %s: %d daily bars (%s..%s)", s.Ticker, len(s.Points),
			s.Points[0].Time.Format("2006-01-02"),
			s.Points[len(s.Points)-1].Time.Format("2006-01-02"))
	}
	return series, nil
}
