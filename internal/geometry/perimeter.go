package geometry

import (
	"math"

	"tidetrap/internal/model"
)

// PerimeterPoints is the angular resolution of the rim. Coverage scans are
// O(PerimeterPoints) per tide sample.
const PerimeterPoints = 100

// Perimeter samples the top rim of the trap at PerimeterPoints evenly spaced
// angles over the half-circle, θ ∈ [0, π] inclusive. For each θ:
//
//	x = r·cosθ
//	y = r·sinθ + delta
//	z = intercept + height − slope·y
//
// Points are ordered by ascending θ, which means descending x.
func Perimeter(spec model.TrapSpec) []model.Point {
	rim := make([]model.Point, PerimeterPoints)
	for i := range rim {
		theta := math.Pi * float64(i) / float64(PerimeterPoints-1)
		x := spec.Radius * math.Cos(theta)
		y := spec.Radius*math.Sin(theta) + spec.Delta
		rim[i] = model.Point{
			X: x,
			Y: y,
			Z: spec.Intercept + spec.Height - spec.Slope*y,
		}
	}
	return rim
}
