package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/cohortsim/internal/histogram"
)

// AssertProgressionBounded asserts that every session mean falls within
// [min, max].
func AssertProgressionBounded(t *testing.T, progression []float64, min, max float64) {
	t.Helper()
	for i, v := range progression {
		if math.IsNaN(v) || v < min || v > max {
			t.Errorf("AssertProgressionBounded: session %d: mean %.6f not in [%.4f, %.4f]", i, v, min, max)
		}
	}
}

// AssertProgressionStable asserts that the variance of the session means over
// the last n sessions is below maxVariance.
func AssertProgressionStable(t *testing.T, progression []float64, maxVariance float64, n int) {
	t.Helper()
	start := len(progression) - n
	if start < 0 {
		start = 0
	}
	tail := progression[start:]
	if len(tail) < 2 {
		t.Fatalf("AssertProgressionStable: need at least 2 sessions, have %d", len(tail))
	}

	var sum float64
	for _, v := range tail {
		sum += v
	}
	mean := sum / float64(len(tail))

	var variance float64
	for _, v := range tail {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(tail))

	if variance > maxVariance {
		t.Errorf("AssertProgressionStable: variance %.6f over last %d sessions exceeds %.6f", variance, len(tail), maxVariance)
	}
}

// AssertExperiencedUnchanged asserts that the experienced block of a trial,
// which leads creation order, ends the trial at its base skill.
func AssertExperiencedUnchanged(t *testing.T, res TrialResult) {
	t.Helper()
	for i := range res.Composition.Experienced {
		if res.Final[i] != res.Initial[i] {
			t.Errorf("AssertExperiencedUnchanged: student %d: base %.4f, final %.4f", i, res.Initial[i], res.Final[i])
		}
	}
}

// AssertNoSkillLoss asserts that no student finishes below their base skill.
// Retained gains are never negative, so total skill never drops under base.
func AssertNoSkillLoss(t *testing.T, res TrialResult) {
	t.Helper()
	for i := range res.Final {
		if res.Final[i] < res.Initial[i] {
			t.Errorf("AssertNoSkillLoss: student %d: final %.6f below base %.6f", i, res.Final[i], res.Initial[i])
		}
	}
}

// AssertHistogramMass asserts that a histogram's binned counts plus outliers
// add up to want within tolerance.
func AssertHistogramMass(t *testing.T, h histogram.Histogram, want, tolerance float64) {
	t.Helper()
	got := h.Total() + h.Outliers
	if math.Abs(got-want) > tolerance {
		t.Errorf("AssertHistogramMass: total %.6f, want %.6f (±%.6f)", got, want, tolerance)
	}
}
