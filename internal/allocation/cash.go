package allocation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"steady-drip/internal/domain"
)

// ParseCash normalizes free-text cash input and returns a positive dollar
// amount. Comma and period are both accepted as the decimal separator
// ("532,45" and "532.45" parse identically). Currency symbols and spaces
// are ignored. Anything else fails with domain.ErrInvalidCash.
func ParseCash(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, fmt.Errorf("empty input: %w", domain.ErrInvalidCash)
	}

	// With both separators present the rightmost one is the decimal mark
	// and the other is a thousands separator ("1.234,56" → 1234.56).
	comma := strings.LastIndex(s, ",")
	period := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && period >= 0:
		if comma > period {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return 0, fmt.Errorf("%q: %w", text, domain.ErrInvalidCash)
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%q: %w", text, domain.ErrInvalidCash)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative amount %q: %w", text, domain.ErrInvalidCash)
	}
	return amount, nil
}
