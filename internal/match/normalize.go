package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for fuzzy comparison: CamelCase is
// split, everything is lowercased and separators are dropped.
// "WindCompartment_ID" and "windcompartmentid" normalize identically.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier or a display name into lowercase tokens.
// Examples:
//   - "DivisionID" -> ["division", "id"]
//   - "Pedal Organ" -> ["pedal", "organ"]
//   - "HWKeyboard" -> ["hw", "keyboard"]
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

// HasToken reports whether any token of s starts with one of the prefixes.
// Prefixes are compared case-insensitively.
func HasToken(s string, prefixes ...string) bool {
	for _, tok := range TokenizeIdent(s) {
		for _, p := range prefixes {
			if strings.HasPrefix(tok, strings.ToLower(p)) {
				return true
			}
		}
	}

	return false
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	// "orderID": lower to upper
	if !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// "HWKeyboard": end of an acronym
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
