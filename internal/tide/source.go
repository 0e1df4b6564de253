package tide

// Source supplies a series of hourly tide-level readings in meters above
// sea level. Sampling interval and series length are the source's business;
// the simulator just walks the slice.
type Source interface {
	Levels() ([]float64, error)
	Name() string
}

// Extremes locates the lowest and highest readings in a series and where
// they occurred, for reporting. Hours are indexes into the series.
func Extremes(levels []float64) (low, high float64, lowHour, highHour int) {
	if len(levels) == 0 {
		return 0, 0, 0, 0
	}
	low, high = levels[0], levels[0]
	for i, v := range levels {
		if v < low {
			low = v
			lowHour = i
		}
		if v > high {
			high = v
			highHour = i
		}
	}
	return low, high, lowHour, highHour
}
