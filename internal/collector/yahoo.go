package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"MarketBoard/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance v8 chart API. It
// needs no credential, which makes it the fallback provider when no Polygon
// key is configured.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure of the chart API. Close cells are
// null for halted sessions, so they decode as nil pointers.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	// period2 is an exclusive epoch bound; push it one day past end so the
	// end date's bar is included.
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		f.BaseURL, url.PathEscape(ticker), start.Unix(), end.AddDate(0, 0, 1).Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	points, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	return points, nil
}

// parseChart extracts (timestamp, adjusted close) points from a chart API
// response. Adjusted closes live in indicators.adjclose; some response
// variants only carry indicators.quote.close, which is the fallback. Shape
// quirks are handled here and nowhere else.
func parseChart(body []byte) ([]model.PricePoint, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("no data returned")
	}
	result := chart.Chart.Result[0]

	var closes []*float64
	switch {
	case len(result.Indicators.Adjclose) > 0 && len(result.Indicators.Adjclose[0].Adjclose) > 0:
		closes = result.Indicators.Adjclose[0].Adjclose
	case len(result.Indicators.Quote) > 0:
		closes = result.Indicators.Quote[0].Close
	default:
		return nil, fmt.Errorf("no close series in response")
	}
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("%d closes for %d timestamps", len(closes), len(result.Timestamp))
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue // null cell (halt/holiday filler)
		}
		points = append(points, model.PricePoint{
			Time:  time.Unix(ts, 0),
			Close: *closes[i],
		})
	}
	return points, nil
}
