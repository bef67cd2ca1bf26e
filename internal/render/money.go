package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefix of formatted amounts
const CurrencySymbol = "₪"

// Money whole-shekel amount with thousands separators, e.g. ₪12,345
func Money(v float64) string {
	return CurrencySymbol + Number(v, 0)
}

// MoneyExact keeps agorot when the amount is not whole
func MoneyExact(v float64) string {
	return CurrencySymbol + Number(v, autoPlaces(v, 2))
}

// Number rounds half away from zero to places and groups thousands
func Number(v float64, places int32) string {
	d := decimal.NewFromFloat(v).Round(places)
	if d.IsZero() {
		d = decimal.Zero
	}
	s := d.StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Percent fraction as a percentage; one decimal unless whole
func Percent(fraction float64) string {
	pct := fraction * 100
	return Number(pct, autoPlaces(pct, 1)) + "%"
}

// Count whole or one-decimal quantity
func Count(v float64) string {
	return Number(v, autoPlaces(v, 1))
}

// autoPlaces 0 when v rounds to a whole number at the given precision, else places
func autoPlaces(v float64, places int32) int32 {
	d := decimal.NewFromFloat(v).Round(places)
	if d.Equal(d.Truncate(0)) {
		return 0
	}
	return places
}
