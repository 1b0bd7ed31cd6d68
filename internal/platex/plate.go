// Package platex canonicalizes and validates vehicle registration plates and
// phone numbers. All functions are pure: invalid input is reported by a
// false return, never by an error or a panic.
//
// Plates are stored and compared only in normalized form (uppercase, no
// spaces or hyphens). The accepted shape is the standard one: a letter,
// three digits, two letters and a two- or three-digit region code, e.g.
// А123БВ777. Both Cyrillic and Latin letters are allowed.
package platex

import "strings"

// NormalizePlate strips spaces and hyphens and upper-cases the input.
// Idempotent: NormalizePlate(NormalizePlate(p)) == NormalizePlate(p).
func NormalizePlate(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, raw)
	return strings.ToUpper(cleaned)
}

// isPlateLetter reports whether r is an uppercase Cyrillic letter (А-Я or Ё)
// or an ASCII letter. The input is expected to be normalized already, but
// lowercase ASCII is tolerated.
func isPlateLetter(r rune) bool {
	if r >= 0x0410 && r <= 0x042F || r == 0x0401 {
		return true
	}
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// ValidatePlate checks the normalized form of plate against the fixed shape:
// letter, 3 digits, 2 letters, 2-3 digits (8 or 9 characters total, counted
// in runes, not bytes).
func ValidatePlate(plate string) bool {
	normalized := NormalizePlate(plate)

	chars := []rune(normalized)
	if len(chars) < 8 || len(chars) > 9 {
		return false
	}

	if !isPlateLetter(chars[0]) {
		return false
	}
	for _, c := range chars[1:4] {
		if !isDigit(c) {
			return false
		}
	}
	for _, c := range chars[4:6] {
		if !isPlateLetter(c) {
			return false
		}
	}
	for _, c := range chars[6:] {
		if !isDigit(c) {
			return false
		}
	}
	return true
}

// FormatPlate renders a normalized plate for display: А123БВ777 becomes
// "А 123 БВ 777". Input that does not have the expected length is returned
// normalized but otherwise untouched.
func FormatPlate(plate string) string {
	normalized := NormalizePlate(plate)
	chars := []rune(normalized)
	if len(chars) != 8 && len(chars) != 9 {
		return normalized
	}
	return string(chars[0:1]) + " " + string(chars[1:4]) + " " + string(chars[4:6]) + " " + string(chars[6:])
}
