package geometry

import (
	"math"

	"tidetrap/internal/model"
)

// Coverage returns the fraction of the rim under water at the given tide
// level, in [0, 1]. It scans the rim in generation order for the first point
// with z ≤ level; if none exists the trap is entirely above water and the
// coverage is 0. Otherwise the chord from that point to the apex reference
// (0, radius+delta) subtends an angle recovered by the law of cosines, and
// the coverage is that angle as a fraction of π/2.
//
// The angular fraction ignores the warping of the submerged area caused by
// the z-slope; this is a deliberate approximation inherited from the model.
func Coverage(level float64, rim []model.Point, radius, delta float64) float64 {
	idx := -1
	for i := range rim {
		if rim[i].Z <= level {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0
	}

	chord := math.Hypot(rim[idx].X, rim[idx].Y-radius-delta)

	// Law of cosines on the isoceles triangle with two sides of length
	// radius. Clamp against floating-point drift before the acos.
	ratio := (2*radius*radius - chord*chord) / (2 * radius * radius)
	if ratio > 1 {
		ratio = 1
	} else if ratio < -1 {
		ratio = -1
	}
	return math.Acos(ratio) / (0.5 * math.Pi)
}
