package domain

import (
	"math"

	m "gooze.dev/pkg/testimport/internal/model"
)

const (
	percentBase             = 100.0
	successDensityPrecision = 2
)

// ComputeMeasures derives the published measures from a run aggregate. It
// returns false when the reports contain no test cases.
func ComputeMeasures(agg m.Aggregate) (m.Measures, bool) {
	if agg.Tests <= 0 {
		return m.Measures{}, false
	}

	return m.Measures{
		Tests:               agg.Tests,
		Errors:              agg.Errors,
		Failures:            agg.Failures,
		Skipped:             agg.Skipped,
		SuccessDensity:      successDensity(agg),
		ExecutionTimeMillis: agg.DurationMillis,
	}, true
}

// successDensity is the percentage of tests that were neither failures nor
// errors, rounded to two decimal places.
func successDensity(agg m.Aggregate) float64 {
	passed := float64(agg.Tests - agg.Errors - agg.Failures)

	return scaleHalfUp(passed*percentBase/float64(agg.Tests), successDensityPrecision)
}

// scaleHalfUp rounds v to the given number of decimal places, ties away from zero.
func scaleHalfUp(v float64, places int) float64 {
	pow := math.Pow10(places)

	return math.Round(v*pow) / pow
}
