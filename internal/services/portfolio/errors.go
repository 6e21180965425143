package portfolio

import "errors"

var (
	// ErrInvalidInput rejects malformed tickers, non-positive share
	// counts and zero dates before they reach the core.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFutureDate rejects purchases dated after today.
	ErrFutureDate = errors.New("purchase date is in the future")

	// ErrHoldingNotFound is returned when removing a ticker that is not held.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrPortfolioExists is returned when creating a portfolio whose
	// name is already taken.
	ErrPortfolioExists = errors.New("portfolio already exists")
)
