package pricing

import "fmt"

// percentOfCents applies a basis-point rate to an amount, rounding half away
// from zero to the nearest cent. Rounding happens here, at the line, so
// half-cent drift never compounds across lines.
func percentOfCents(amountCents, rateBps int64) int64 {
	product := amountCents * rateBps
	if product >= 0 {
		return (product + 5000) / 10000
	}
	return (product - 5000) / 10000
}

// FormatCents renders an integer-cent amount as a dollar string, e.g. 1499
// becomes "$14.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func absCents(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
