package common

import (
	"fmt"
	"strconv"
	"strings"
)

type number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// IsInRange checks if a value is within the specified range, both inclusive.
func IsInRange[T number](min T, value T, max T) bool {
	return min <= value && value <= max
}

// Clamp limits value to [lo, hi].
func Clamp[T number](lo, value, hi T) T {
	return max(lo, min(value, hi))
}

// Pad3 renders n zero-padded to three digits, the object index width of the
// target schema (Manual001, Panel000Element012).
func Pad3(n int) string {
	return fmt.Sprintf("%03d", n)
}

// Pad6 renders n zero-padded to six digits, the width used for source record
// keys and installation package directories.
func Pad6(n int) string {
	return fmt.Sprintf("%06d", n)
}

// ParsePositive parses s as a strictly positive decimal integer.
func ParsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

// ParseInt parses s as a decimal integer, accepting surrounding blanks.
func ParseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}

	return n, true
}

// ParseFloat parses s as a float, accepting a decimal comma.
func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}
