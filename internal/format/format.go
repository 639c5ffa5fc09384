// Package format renders money and ratio values for reports and logs.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// USD formats a currency value as $X,XXX.XX USD.
// Negative values render as -$X,XXX.XX USD.
func USD(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	return fmt.Sprintf("%s$%s USD", sign, group(v.StringFixed(2)))
}

// Bps formats a basis-point value with two decimals.
func Bps(v decimal.Decimal) string {
	return fmt.Sprintf("%s bps", v.StringFixed(2))
}

// Percent formats a fraction (0.015 -> "1.50%").
func Percent(v decimal.Decimal) string {
	return fmt.Sprintf("%s%%", v.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

// Ratio formats a risk/reward style ratio as X.XX:1.
func Ratio(v decimal.Decimal) string {
	return fmt.Sprintf("%s:1", v.StringFixed(2))
}

// group inserts thousands separators into the integer part of a fixed-point
// decimal string ("12345.67" -> "12,345.67").
func group(s string) string {
	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart, fracPart = s[:idx], s[idx:]
	}

	n := len(intPart)
	if n <= 3 {
		return intPart + fracPart
	}

	var sb strings.Builder
	rem := n % 3
	if rem > 0 {
		sb.WriteString(intPart[:rem])
	}
	for i := rem; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(intPart[i : i+3])
	}
	return sb.String() + fracPart
}
