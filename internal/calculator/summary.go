package calculator

import (
	"errors"
	"fmt"
	"math"

	"MarketBoard/internal/model"
)

// TradingDaysPerYear is the conventional trading-day count used for the
// trailing window and for volatility annualization.
const TradingDaysPerYear = 252

// TrailingWindow returns the effective trailing window: one trading year,
// or the whole return history when it is shorter.
func TrailingWindow(returnRows int) int {
	if returnRows < TradingDaysPerYear {
		return returnRows
	}
	return TradingDaysPerYear
}

// CalculateTotalReturn computes the simple percentage return over the
// trailing window block of prices: prices[last] / prices[len-window] - 1.
// The denominator is the first price of the last `window` rows, so with
// prices [100,200,400] and window 2 the result is 400/200 - 1. It is taken
// from raw prices, not compounded from log returns.
func CalculateTotalReturn(prices []float64, window int) (float64, error) {
	if window < 1 {
		return 0, errors.New("window must be positive")
	}
	if len(prices) < window {
		return 0, fmt.Errorf("%w: need %d prices for the window, have %d",
			ErrInsufficientHistory, window, len(prices))
	}
	first := prices[len(prices)-window]
	last := prices[len(prices)-1]
	return last/first - 1, nil
}

// CalculateAnnualizedVolatility computes the sample standard deviation
// (n-1 denominator, the conventional financial estimator) of the last
// `window` log returns, scaled by sqrt(252). The sample estimator is
// undefined for a single observation, so window must be at least 2.
func CalculateAnnualizedVolatility(returns []float64, window int) (float64, error) {
	if window < 2 {
		return 0, fmt.Errorf("%w: volatility needs at least 2 return observations, window is %d",
			ErrInsufficientHistory, window)
	}
	if len(returns) < window {
		return 0, fmt.Errorf("%w: need %d returns for the window, have %d",
			ErrInsufficientHistory, window, len(returns))
	}
	tail := returns[len(returns)-window:]

	mean := 0.0
	for _, r := range tail {
		mean += r
	}
	mean /= float64(len(tail))

	ss := 0.0
	for _, r := range tail {
		d := r - mean
		ss += d * d
	}
	variance := ss / float64(len(tail)-1)
	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear), nil
}

// BuildSummaries computes the trailing-window scalars for every ticker. The
// window is shared across tickers (the table is aligned) and returned
// alongside the rows so callers can tell when less than a full trading
// year backs the numbers.
func BuildSummaries(pt *model.PriceTable, rt *model.ReturnTable) ([]model.TickerSummary, int, error) {
	window := TrailingWindow(rt.Len())
	summaries := make([]model.TickerSummary, 0, len(pt.Tickers))
	for _, ticker := range pt.Tickers {
		total, err := CalculateTotalReturn(pt.Prices[ticker], window)
		if err != nil {
			return nil, 0, fmt.Errorf("total return for %s: %w", ticker, err)
		}
		vol, err := CalculateAnnualizedVolatility(rt.Returns[ticker], window)
		if err != nil {
			return nil, 0, fmt.Errorf("volatility for %s: %w", ticker, err)
		}
		summaries = append(summaries, model.TickerSummary{
			Ticker:        ticker,
			TotalReturn:   total,
			AnnualizedVol: vol,
			WindowDays:    window,
		})
	}
	return summaries, window, nil
}
