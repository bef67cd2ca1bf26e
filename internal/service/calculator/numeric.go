package calculator

import (
	"math"
	"strconv"
	"strings"
)

const epsilon = 1e-9

// finite reports whether v is a usable number
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NonNegative clamps negatives and non-finite values to 0
func NonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// Clamp limits v to [lo, hi]; non-finite input yields lo
func Clamp(v, lo, hi float64) float64 {
	if !finite(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseNumber tolerant parse of user input ("1,234.5", " 12 ", "12,5")
func ParseNumber(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}
	s = strings.TrimPrefix(s, "₪")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return fallback
	}
	return v
}

// RoundCount rounds to a non-negative integer count
func RoundCount(v float64) int {
	if !finite(v) || v <= 0 {
		return 0
	}
	return int(math.Round(v))
}

// ToExVAT strips VAT from an inc-VAT amount
func ToExVAT(amountIncVAT, vatRate float64) float64 {
	if !finite(amountIncVAT) {
		return 0
	}
	if !finite(vatRate) || vatRate <= -1 {
		return amountIncVAT
	}
	return amountIncVAT / (1 + vatRate)
}

// safeDiv returns 0 when the divisor is not positive
func safeDiv(a, b float64) float64 {
	if b <= 0 || !finite(b) {
		return 0
	}
	return a / b
}
