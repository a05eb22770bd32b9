package services

import (
	"math"
	"strings"
)

// supportedCurrencies are the codes accepted as-is. Anything else resolves
// to the configured fallback so the charged and displayed currency can never
// diverge.
var supportedCurrencies = map[string]bool{
	"gbp": true,
	"usd": true,
}

// NormalizeCurrency lower-cases the supplied ISO 4217 code and resolves
// unrecognized or absent values to the fallback. Normalizing an already
// normalized value returns it unchanged.
func NormalizeCurrency(raw, fallback string) string {
	code := strings.ToLower(strings.TrimSpace(raw))
	if supportedCurrencies[code] {
		return code
	}
	return fallback
}

// MinorUnits converts a major-unit amount to the processor's minor units
// using round-half-away-from-zero. This value is what the processor
// actually charges.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// MajorUnits converts a processor-reported minor-unit total back to major
// units.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}
