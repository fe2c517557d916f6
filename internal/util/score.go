package util

import (
	"math"
	"strconv"
	"strings"
)

// RoundScore rounds to two decimals, halves away from zero. The half is
// judged on the shortest decimal form of v, so 1.005 becomes 1.01 even
// though its binary value sits just below the half.
func RoundScore(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	digits := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	if len(frac) <= 2 {
		return v
	}

	cents, err := strconv.ParseInt(whole+frac[:2], 10, 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	if frac[2] >= '5' {
		cents++
	}

	out := float64(cents) / 100
	if v < 0 {
		out = -out
	}
	return out
}

// ClampScore bounds v to [0, max].
func ClampScore(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
