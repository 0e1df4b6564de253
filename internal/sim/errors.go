package sim

import "fmt"

// InvalidHarvestError reports a harvest decision that is negative or larger
// than the number of fish currently in the trap. It is a recoverable
// validation failure: the caller should re-prompt, never clamp.
type InvalidHarvestError struct {
	Selected int
	Caught   float64
}

func (e *InvalidHarvestError) Error() string {
	return fmt.Sprintf("selected harvest %d must be a non-negative integer no larger than the %d fish in the trap",
		e.Selected, int(e.Caught))
}
