package model

import (
	"fmt"
	"math"
)

// MinorUnits converts a major-unit amount (e.g. 19.99) to integer minor
// units (1999). Rounds to nearest; plain truncation would systematically
// undercharge amounts like 19.99 whose float representation sits just
// below the true value.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * 100))
}

// MajorString formats minor units for display, e.g. 1999 -> "19.99".
func MajorString(minor int64) string {
	neg := ""
	if minor < 0 {
		neg = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", neg, minor/100, minor%100)
}
