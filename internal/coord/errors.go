package coord

import "fmt"

// errInvertedBounds reports a BoundsCoord whose min exceeds its max on the
// given axis. This is a programmer error: bounds are constructed once by a
// caller, not decoded from untrusted input, so it is returned (not
// panicked) for the constructor to surface as a construction-time failure.
func errInvertedBounds(axis string, min, max int) error {
	return fmt.Errorf("coord: inverted bounds on %s axis: min=%d > max=%d", axis, min, max)
}
