// Package safeconv provides checked integer conversions for arena indices and
// configured sizes.
package safeconv

import "math"

// MaxInt is the maximum value for int type (platform-dependent).
const MaxInt = int(^uint(0) >> 1)

// MustIntToUint32 converts int to uint32, panics on bounds violation.
// Use only when bounds violations are logically impossible.
func MustIntToUint32(v int) uint32 {
	if v < 0 || uint64(v) > math.MaxUint32 {
		panic("safeconv: int to uint32 out of bounds")
	}

	return uint32(v)
}

// ClampUint64ToInt converts uint64 to int, saturating at MaxInt.
func ClampUint64ToInt(v uint64) int {
	if v > uint64(MaxInt) {
		return MaxInt
	}

	return int(v)
}
