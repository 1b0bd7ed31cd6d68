// Package versionx compares dotted client/server version strings.
package versionx

import (
	"strconv"
	"strings"
)

// Compare compares two dotted version strings component by component, left
// to right; the first difference wins. Missing or non-numeric components
// are treated as 0, so "1.0" == "1.0.0" and "1.x.2" == "1.0.2".
// Returns -1, 0 or 1.
func Compare(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		av := component(as, i)
		bv := component(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Less reports whether version a is strictly older than b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}
