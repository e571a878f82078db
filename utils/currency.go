package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary amount with thousands separators and
// two decimals, e.g. 15000.5 -> "15,000.50". Used in activity log details
// and event payloads; arithmetic stays on decimal.Decimal.
func FormatAmount(amount decimal.Decimal) string {
	formatted := amount.StringFixed(2)

	neg := strings.HasPrefix(formatted, "-")
	if neg {
		formatted = formatted[1:]
	}

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := strings.Join(groups, ",") + "." + decimalPart
	if neg {
		out = "-" + out
	}
	return out
}
