package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientHistory marks a provider response with fewer than
	// MinHistory observations.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrDataUnavailable marks a ticker neither provider could serve.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidCash marks cash input that does not parse as a positive
	// decimal after separator normalization.
	ErrInvalidCash = errors.New("invalid cash amount")
)

// IncompleteBasketError aborts an allocation when one or more configured
// tickers lack valid signals. The plan is never computed around missing
// assets.
type IncompleteBasketError struct {
	Missing []string
	Reasons map[string]error
}

func (e *IncompleteBasketError) Error() string {
	return fmt.Sprintf("incomplete basket: missing signals for %s", strings.Join(e.Missing, ", "))
}

// IsIncompleteBasket reports whether err is (or wraps) an IncompleteBasketError.
func IsIncompleteBasket(err error) bool {
	var ib *IncompleteBasketError
	return errors.As(err, &ib)
}
