package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	rmodels "github.com/polygon-io/client-go/rest/models"
	"golang.org/x/time/rate"

	"MarketBoard/internal/model"
)

// PolygonFetcher implements Fetcher using the official Polygon.io REST
// client. Aggregates are requested adjusted, ascending and at daily
// granularity; pagination is the SDK iterator's business.
type PolygonFetcher struct {
	rest    *polygonrest.Client
	limiter *rate.Limiter // nil when pacing is disabled
}

// NewPolygonFetcher creates a Polygon fetcher with optional proxy support.
// requestsPerMinute > 0 paces calls client-side (the free tier allows 5 per
// minute); 0 leaves them unpaced.
func NewPolygonFetcher(apiKey string, requestsPerMinute int, proxyURL string) *PolygonFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	f := &PolygonFetcher{
		rest: polygonrest.NewWithClient(apiKey, &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		}),
	}
	if requestsPerMinute > 0 {
		f.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return f
}

func (f *PolygonFetcher) Name() string { return "polygon" }

func (f *PolygonFetcher) FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("polygon rate wait: %w", err)
		}
	}

	params := &rmodels.ListAggsParams{
		Ticker:     ticker,
		Timespan:   rmodels.Day,
		Multiplier: 1,
		From:       rmodels.Millis(start),
		// The range bound is millisecond-precise; extend one day so the
		// end date's bar is covered whatever its intraday timestamp.
		To: rmodels.Millis(end.AddDate(0, 0, 1)),
	}
	lim := 50000
	asc := rmodels.Asc
	adj := true
	params.Limit = &lim
	params.Order = &asc
	params.Adjusted = &adj

	var points []model.PricePoint
	iter := f.rest.ListAggs(ctx, params)
	for iter.Next() {
		a := iter.Item()
		points = append(points, model.PricePoint{
			Time:  time.Time(a.Timestamp),
			Close: a.Close,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("polygon aggs for %s: %w", ticker, err)
	}
	return points, nil
}
