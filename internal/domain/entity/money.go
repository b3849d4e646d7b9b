package entity

import (
	"fmt"
	"math"
)

// Monetary amounts are generated in integer cents and only formatted to a
// two-decimal string at the persistence boundary, where the schema stores
// them as DECIMAL(10,2). This keeps arithmetic exact during generation.

// CentsFromFloat converts a decimal amount (as scanned from a DECIMAL column)
// to integer cents, rounding to the nearest cent.
func CentsFromFloat(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatCents renders integer cents as a two-decimal string, e.g. 10050 -> "100.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
