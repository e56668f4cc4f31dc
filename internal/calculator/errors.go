package calculator

import "errors"

var (
	// ErrInsufficientHistory is returned when fewer aligned observations
	// exist than an operation needs.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrNoCommonDates is returned when the tracked tickers share no
	// trading dates, e.g. a newly listed ticker mixed into a long-history
	// universe with no range restriction.
	ErrNoCommonDates = errors.New("no common trading dates")
)
