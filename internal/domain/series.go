package domain

import "time"

// Bar is one daily observation for a ticker.
type Bar struct {
	Ticker string    `json:"ticker"`
	Day    time.Time `json:"day"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
}

// Series is a chronologically ascending daily price history with no
// duplicate days.
type Series []Bar

// MinHistory is the minimum number of observations a series needs before
// any signal derived from it is considered valid. Shorter series are
// treated as no data.
const MinHistory = 200

// Closes returns the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Last returns the most recent bar. The zero Bar for an empty series.
func (s Series) Last() Bar {
	if len(s) == 0 {
		return Bar{}
	}
	return s[len(s)-1]
}

// MaxHigh returns the highest high over the whole series.
func (s Series) MaxHigh() float64 {
	var max float64
	for _, b := range s {
		if b.High > max {
			max = b.High
		}
	}
	return max
}
