package platex

import "strings"

// NormalizePhone maps raw phone input to +<countrycode><digits> form.
// Everything except digits and '+' is dropped first, then the leading
// marker is rewritten, checked in order:
//
//	+7...        unchanged
//	8...         8 replaced with +7
//	7...         '+' prefixed
//	other digit  +7 prefixed
func NormalizePhone(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, raw)

	switch {
	case strings.HasPrefix(cleaned, "+7"):
		return cleaned
	case strings.HasPrefix(cleaned, "8") && len(cleaned) > 1:
		return "+7" + cleaned[1:]
	case strings.HasPrefix(cleaned, "7") && len(cleaned) > 1:
		return "+" + cleaned
	case cleaned != "" && cleaned[0] >= '0' && cleaned[0] <= '9':
		return "+7" + cleaned
	default:
		return cleaned
	}
}

// ValidatePhone checks the normalized form: at least 10 characters and a
// recognized leading marker.
func ValidatePhone(phone string) bool {
	normalized := NormalizePhone(phone)
	if len(normalized) < 10 {
		return false
	}
	return strings.HasPrefix(normalized, "+") ||
		strings.HasPrefix(normalized, "8") ||
		strings.HasPrefix(normalized, "7")
}

// FormatPhone renders a normalized phone for display:
// +79165180900 becomes "+7 (916) 518-09-00".
func FormatPhone(phone string) string {
	n := NormalizePhone(phone)
	if strings.HasPrefix(n, "+7") && len(n) == 12 {
		return "+7 (" + n[2:5] + ") " + n[5:8] + "-" + n[8:10] + "-" + n[10:12]
	}
	return n
}
