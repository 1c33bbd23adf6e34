// Package units holds numeric conversions shared by the extractors.
package units

import (
	"fmt"
	"math"
)

// RoundHalfUp rounds to the nearest integer with ties toward positive
// infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTo rounds x half-up to the given number of decimals.
func RoundTo(x float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return RoundHalfUp(x*scale) / scale
}

// Channel converts a 0-1 color channel to 0-255.
func Channel(c float64) int {
	v := int(RoundHalfUp(c * 255))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Hex formats 0-1 channels as an uppercase #RRGGBB string.
func Hex(r, g, b float64) string {
	return fmt.Sprintf("#%02X%02X%02X", Channel(r), Channel(g), Channel(b))
}

// Percent converts a 0-1 opacity to a whole percentage.
func Percent(opacity float64) int {
	return int(RoundHalfUp(opacity * 100))
}
