// Package render turns pipeline output into presentation models and HTML.
package render

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// DefaultMaxStars is the star count used when none is given.
const DefaultMaxStars = 5

// Rating is the display form of a numeric score.
type Rating struct {
	Value     float64 // clamped to [0, Max]
	Max       int
	Filled    int
	Stars     []bool // one entry per star, true when filled
	Text      string
	AriaLabel string
}

// NewRating clamps value into [0, max] and derives the star row. NaN is
// treated as 0 and a non-positive max falls back to DefaultMaxStars.
func NewRating(value float64, max int) Rating {
	if max <= 0 {
		max = DefaultMaxStars
	}
	if math.IsNaN(value) {
		value = 0
	}
	value = math.Min(math.Max(value, 0), float64(max))

	// Half values round up, matching the browser's Math.round.
	filled := int(math.Floor(value + 0.5))
	stars := make([]bool, max)
	for i := range stars {
		stars[i] = i < filled
	}
	return Rating{
		Value:     value,
		Max:       max,
		Filled:    filled,
		Stars:     stars,
		Text:      formatRating(value),
		AriaLabel: fmt.Sprintf("Rating: %s out of %d", strconv.FormatFloat(value, 'f', -1, 64), max),
	}
}

// formatRating prints whole numbers without decimals and everything else
// with exactly one. Exact ties (x.x5) round up rather than to even.
func formatRating(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	twenty := new(big.Float).SetPrec(128).SetFloat64(v)
	twenty.Mul(twenty, big.NewFloat(20))
	if twenty.IsInt() {
		if n, _ := twenty.Int64(); n%2 != 0 {
			return strconv.FormatFloat((math.Floor(v*10)+1)/10, 'f', 1, 64)
		}
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
