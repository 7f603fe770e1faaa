package scripterr

import "math"

// Integer bounds shared by accessors and the assembler.
const (
	MinInt16  = math.MinInt16
	MaxInt16  = math.MaxInt16
	MaxUint8  = math.MaxUint8
	MaxUint16 = math.MaxUint16
	MaxInt32  = math.MaxInt32
	MinInt32  = math.MinInt32
)

// CheckRange validates that v lies in [lo, hi]. name identifies the argument
// in the error message.
func CheckRange(name string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return Range("%s must be in range %d..%d, got %d", name, lo, hi, v)
	}
	return nil
}

// CheckMin validates that v is at least lo.
func CheckMin(name string, v, lo int64) error {
	if v < lo {
		return Range("%s must be at least %d, got %d", name, lo, v)
	}
	return nil
}

// CheckInt16 validates a signed 16-bit value.
func CheckInt16(name string, v int64) error {
	return CheckRange(name, v, MinInt16, MaxInt16)
}

// CheckUint8 validates an unsigned 8-bit value.
func CheckUint8(name string, v int64) error {
	return CheckRange(name, v, 0, MaxUint8)
}

// CheckInt32 validates a signed 32-bit value.
func CheckInt32(name string, v int64) error {
	return CheckRange(name, v, MinInt32, MaxInt32)
}

// CheckIndex validates an entity index against a collection of n entries.
func CheckIndex(name string, v int64, n int) error {
	return CheckRange(name, v, 0, int64(n)-1)
}
