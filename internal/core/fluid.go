package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CSS reference sizes for the fluid-scale interpolation.
const (
	remPx            = 16
	fluidMinViewport = 320
	fluidMaxViewport = 1440
)

// FluidScale builds a CSS clamp() expression that interpolates a value
// between the default viewport breakpoints. Inputs are CSS lengths: a bare
// number is implicit px, a "rem" suffix switches the whole expression to
// rem output.
func FluidScale(minValue, maxValue string) string {
	return FluidScaleBetween(minValue, maxValue, fluidMinViewport, fluidMaxViewport)
}

// FluidScaleBetween is FluidScale with explicit viewport breakpoints.
// The clamp floor and ceiling echo the caller's literals verbatim; only the
// preferred middle term is computed, as an intercept in the output unit plus
// a viewport-width slope. Degenerate breakpoints (equal widths) produce
// Inf/NaN terms in the middle term but still return a clamp string: the
// caller owns the breakpoints, this function just never panics.
func FluidScaleBetween(minValue, maxValue string, minWidth, maxWidth float64) string {
	minPx, minIsRem := cssLengthPx(minValue)
	maxPx, maxIsRem := cssLengthPx(maxValue)

	slope := (maxPx - minPx) / (maxWidth - minWidth)
	intercept := minPx - slope*minWidth

	unit := "px"
	base := intercept
	if minIsRem || maxIsRem {
		unit = "rem"
		base = intercept / remPx
	}

	return fmt.Sprintf("clamp(%s, %s%s + %svw, %s)",
		minValue, cssNumber(base), unit, cssNumber(slope*100), maxValue)
}

// cssLengthPx converts a CSS length literal to pixels, reporting whether it
// was rem-denominated. Unparseable numbers become NaN rather than an error.
func cssLengthPx(v string) (px float64, isRem bool) {
	s := strings.TrimSpace(v)
	isRem = strings.HasSuffix(s, "rem")
	s = strings.TrimSuffix(s, "rem")
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		n = math.NaN()
	}
	if isRem {
		n *= remPx
	}
	return n, isRem
}

func cssNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
