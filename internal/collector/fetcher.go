package collector

import (
	"context"
	"time"

	"MarketBoard/internal/model"
)

// Fetcher defines the interface for fetching daily market data. [start, end]
// bounds the trading dates of interest, end inclusive. Implementations
// return split/dividend-adjusted closes and only translate their provider's
// wire format; ordering, deduplication and positivity are enforced once by
// the collector, so provider quirks never travel further than this seam.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error)
	Name() string
}
