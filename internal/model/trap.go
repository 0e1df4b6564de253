package model

// Point is a sample on the trap's top rim.
type Point struct {
	X float64
	Y float64
	Z float64
}

// TrapSpec describes a semicircular beach trap. Radius must be positive;
// the remaining parameters are unconstrained (a negative height or slope is
// physically odd but well-defined).
type TrapSpec struct {
	Radius    float64 `yaml:"radius" json:"radius"`
	Height    float64 `yaml:"height" json:"height"`
	Slope     float64 `yaml:"slope" json:"slope"`
	Delta     float64 `yaml:"delta" json:"delta"`
	Intercept float64 `yaml:"intercept" json:"intercept"`
}

// DefaultTrap matches the trap surveyed at Comox Harbour.
var DefaultTrap = TrapSpec{
	Radius:    25,
	Height:    2,
	Slope:     0.17,
	Delta:     5,
	Intercept: 6,
}
