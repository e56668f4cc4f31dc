package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
)

// stubTransport stands in for the aggregates API behind the SDK's injected
// http client, capturing the outgoing request and serving a canned body.
type stubTransport struct {
	lastURL *url.URL
	status  int
	body    string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastURL = req.URL
	return &http.Response{
		StatusCode: s.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Request:    req,
	}, nil
}

func polygonFetcherWithStub(stub *stubTransport) *PolygonFetcher {
	return &PolygonFetcher{
		rest: polygonrest.NewWithClient("test-key", &http.Client{Transport: stub}),
	}
}

func TestPolygonFetcher_FetchDailyBars(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	stub := &stubTransport{
		status: http.StatusOK,
		body: fmt.Sprintf(`{"status":"OK","request_id":"t1","ticker":"AAPL","queryCount":2,"resultsCount":2,"adjusted":true,"count":2,"results":[{"c":10.5,"t":%d},{"c":11.25,"t":%d}]}`,
			start.UnixMilli(), start.AddDate(0, 0, 1).UnixMilli()),
	}
	f := polygonFetcherWithStub(stub)

	points, err := f.FetchDailyBars(context.Background(), "AAPL", start, end)
	if err != nil {
		t.Fatalf("FetchDailyBars: %v", err)
	}
	if stub.lastURL == nil {
		t.Fatal("no request issued")
	}
	path := stub.lastURL.Path
	if !strings.Contains(path, "/ticker/AAPL/range/1/day/") {
		t.Errorf("unexpected aggs path %q", path)
	}
	if !strings.Contains(path, strconv.FormatInt(start.UnixMilli(), 10)) {
		t.Errorf("path should carry the start bound in millis: %q", path)
	}
	// The range bound is millisecond-precise, so the request must reach one
	// day past end for the final session's bar to be included.
	if !strings.Contains(path, strconv.FormatInt(end.AddDate(0, 0, 1).UnixMilli(), 10)) {
		t.Errorf("path should carry the end bound pushed one day out: %q", path)
	}
	query := stub.lastURL.Query()
	if got := query.Get("adjusted"); got != "true" {
		t.Errorf("adjusted = %q, want true", got)
	}
	if got := query.Get("sort"); got != "asc" {
		t.Errorf("sort = %q, want asc", got)
	}
	if got := query.Get("limit"); got != "50000" {
		t.Errorf("limit = %q, want 50000", got)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Close != 10.5 || points[1].Close != 11.25 {
		t.Errorf("unexpected closes: %v", points)
	}
	if points[0].Time.UnixMilli() != start.UnixMilli() {
		t.Errorf("bar timestamp not carried through: %v", points[0].Time)
	}
}

func TestPolygonFetcher_APIError(t *testing.T) {
	stub := &stubTransport{
		status: http.StatusTooManyRequests,
		body:   `{"status":"ERROR","request_id":"t2","error":"too many requests"}`,
	}
	f := polygonFetcherWithStub(stub)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	_, err := f.FetchDailyBars(context.Background(), "AAPL", start, start)
	if err == nil {
		t.Fatal("expected error from api failure")
	}
	if !strings.Contains(err.Error(), "AAPL") {
		t.Errorf("error should name the ticker: %v", err)
	}
}

func TestNewPolygonFetcher_Pacing(t *testing.T) {
	if f := NewPolygonFetcher("k", 0, ""); f.limiter != nil {
		t.Error("requests_per_minute 0 should leave fetches unpaced")
	}
	if f := NewPolygonFetcher("k", 5, ""); f.limiter == nil {
		t.Error("requests_per_minute 5 should enable pacing")
	}
}

func TestPolygonFetcher_PacingHonorsContext(t *testing.T) {
	f := NewPolygonFetcher("k", 5, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	_, err := f.FetchDailyBars(ctx, "AAPL", start, start)
	if err == nil {
		t.Fatal("expected error when the context is already canceled")
	}
	if !strings.Contains(err.Error(), "rate wait") {
		t.Errorf("cancellation should surface from the pacing wait: %v", err)
	}
}
