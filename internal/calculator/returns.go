package calculator

import (
	"fmt"
	"math"

	"MarketBoard/internal/model"
)

// CalculateLogReturns derives one-lag log returns per ticker:
// ln(price[i] / price[i-1]). The first price row has no prior value, so the
// result has exactly one row fewer than the input. Non-positive prices are
// rejected with the offending ticker and date; the collector's
// normalization should have refused them already, but the logarithm is
// undefined so the guard stays here too.
func CalculateLogReturns(pt *model.PriceTable) (*model.ReturnTable, error) {
	if pt.Len() < 2 {
		return nil, fmt.Errorf("%w: %d aligned trading days, need at least 2", ErrInsufficientHistory, pt.Len())
	}
	rt := &model.ReturnTable{
		Dates:   pt.Dates[1:],
		Tickers: pt.Tickers,
		Returns: make(map[string][]float64, len(pt.Tickers)),
	}
	for _, ticker := range pt.Tickers {
		prices := pt.Prices[ticker]
		for i, p := range prices {
			if p <= 0 {
				return nil, fmt.Errorf("non-positive price %g for %s on %s",
					p, ticker, pt.Dates[i].Format("2006-01-02"))
			}
		}
		rets := make([]float64, len(prices)-1)
		for i := 1; i < len(prices); i++ {
			rets[i-1] = math.Log(prices[i] / prices[i-1])
		}
		rt.Returns[ticker] = rets
	}
	return rt, nil
}

// CalculateCumulativeIndex compounds each ticker's log returns into an
// index: level[i] = 100 * exp(sum(returns[0..i])). The base 100 sits
// implicitly on the price date just before the first return, and the whole
// history compounds from there; the base is never reset.
func CalculateCumulativeIndex(rt *model.ReturnTable) *model.IndexTable {
	it := &model.IndexTable{
		Dates:   rt.Dates,
		Tickers: rt.Tickers,
		Levels:  make(map[string][]float64, len(rt.Tickers)),
	}
	for _, ticker := range rt.Tickers {
		rets := rt.Returns[ticker]
		levels := make([]float64, len(rets))
		sum := 0.0
		for i, r := range rets {
			sum += r
			levels[i] = 100 * math.Exp(sum)
		}
		it.Levels[ticker] = levels
	}
	return it
}
