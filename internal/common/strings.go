package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// YesNo renders a boolean the way both organ schemas spell it.
func YesNo(b bool) string {
	if b {
		return "Y"
	}

	return "N"
}

// ParseYesNo reports whether s spells a true flag. Hauptwerk writes Y/N,
// older documents also use 1/0 and true/false.
func ParseYesNo(s string) (value bool, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES", "1", "TRUE":
		return true, true
	case "N", "NO", "0", "FALSE":
		return false, true
	default:
		return false, false
	}
}
