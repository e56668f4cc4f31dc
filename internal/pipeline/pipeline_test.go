package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketBoard/internal/calculator"
	"MarketBoard/internal/collector"
	"MarketBoard/internal/config"
	"MarketBoard/internal/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Tickers:     []string{"AAPL", "MSFT"},
		YearsBack:   1,
		Provider:    "mock",
		Output:      filepath.Join(t.TempDir(), "index.html"),
		Title:       "Test Board",
		MaxParallel: 2,
	}
}

func TestRun_MockProvider(t *testing.T) {
	cfg := testConfig(t)

	if err := Run(context.Background(), cfg, &collector.MockFetcher{}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("dashboard not written: %v", err)
	}
	html := string(out)
	for _, want := range []string{"AAPL", "MSFT", "Test Board", "Mock daily data", "Summary (last ~1Y)"} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &collector.MockFetcher{Errs: map[string]error{"MSFT": errors.New("boom")}}

	err := Run(context.Background(), cfg, fetcher)
	if err == nil {
		t.Fatal("expected run to fail when a fetch fails")
	}
	if !strings.Contains(err.Error(), "MSFT") {
		t.Errorf("error should name the failing ticker: %v", err)
	}
	if _, statErr := os.Stat(cfg.Output); !os.IsNotExist(statErr) {
		t.Error("failed run must not write an output file")
	}
}

func TestRun_InsufficientHistory(t *testing.T) {
	cfg := testConfig(t)
	day := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{Points: map[string][]model.PricePoint{
		"AAPL": {{Time: day, Close: 100}},
		"MSFT": {{Time: day, Close: 200}},
	}}

	err := Run(context.Background(), cfg, fetcher)
	if !errors.Is(err, calculator.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Output); !os.IsNotExist(statErr) {
		t.Error("failed run must not write an output file")
	}
}

func TestRun_NoCommonDates(t *testing.T) {
	cfg := testConfig(t)
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }
	fetcher := &collector.MockFetcher{Points: map[string][]model.PricePoint{
		"AAPL": {{Time: day(time.January, 6), Close: 100}, {Time: day(time.January, 7), Close: 101}},
		"MSFT": {{Time: day(time.February, 3), Close: 200}, {Time: day(time.February, 4), Close: 202}},
	}}

	err := Run(context.Background(), cfg, fetcher)
	if !errors.Is(err, calculator.ErrNoCommonDates) {
		t.Fatalf("expected ErrNoCommonDates, got %v", err)
	}
}
