// Package helpers provides small numeric clamping utilities.
//
// They are used where user-supplied sizes and limits (config values, query
// parameters) must be forced into a valid range instead of rejected.
package helpers

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	if v < lowerLimit {
		return lowerLimit
	}
	if v > upperLimit {
		return upperLimit
	}
	return v
}

// ClampInt64 restricts v to the range [lowerLimit, upperLimit].
func ClampInt64(v, lowerLimit, upperLimit int64) int64 {
	if v < lowerLimit {
		return lowerLimit
	}
	if v > upperLimit {
		return upperLimit
	}
	return v
}

// NonNegativeUint64 converts v to uint64, mapping negative values to 0.
func NonNegativeUint64(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v) //nolint:gosec // checked above
}
