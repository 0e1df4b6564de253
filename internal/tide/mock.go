package tide

import "math"

// MockSource generates a semidiurnal sinusoid for development and
// regression testing: level(h) = mid + amp·sin(2πh/period).
type MockSource struct {
	Low    float64
	High   float64
	Period float64 // hours per tidal cycle
	Hours  int
}

// NewMockSource returns a week of hourly readings oscillating between
// -1.0 and 4.0 m on a 12.4-hour tidal period.
func NewMockSource() *MockSource {
	return &MockSource{Low: -1.0, High: 4.0, Period: 12.4, Hours: 168}
}

func (s *MockSource) Name() string { return "mock" }

func (s *MockSource) Levels() ([]float64, error) {
	mid := (s.High + s.Low) / 2
	amp := (s.High - s.Low) / 2
	levels := make([]float64, s.Hours)
	for h := range levels {
		levels[h] = mid + amp*math.Sin(2*math.Pi*float64(h)/s.Period)
	}
	return levels, nil
}
