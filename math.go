package aqua

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseInt converts s into a base 10 integer with an optional sign.
// It returns (0, false) if s is not a valid integer or does not fit in an int.
//
// Usage:
//
//	if amount, ok := aqua.ParseInt(args[0]); ok {
//	    p.Message("giving ", amount)
//	}
func ParseInt(s string) (int, bool) {
	n, err := strconv.ParseInt(s, 10, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// ParseFloat32 converts s into a float32.
// It returns (0, false) if s is not a valid number.
func ParseFloat32(s string) (float32, bool) {
	f, ok := parseFloat(s, 32)
	return float32(f), ok
}

// ParseFloat converts s into a float64.
// Surrounding whitespace is ignored and a single trailing type suffix
// (f, F, d or D) is accepted, so "3.5", " 3.5 " and "3.5d" all yield 3.5.
// The only non-numeric forms accepted are "NaN" and "Infinity", optionally
// signed and spelled exactly so. Values too large to represent parse as ±Inf.
// It returns (0, false) if s is not a valid number.
func ParseFloat(s string) (float64, bool) {
	return parseFloat(s, 64)
}

func parseFloat(s string, bitSize int) (float64, bool) {
	s = strings.TrimSpace(s)
	if f, ok := parseFloatWord(s); ok {
		return f, true
	}
	if f, ok := parseFloatNumber(s, bitSize); ok {
		return f, true
	}
	if s == "" {
		return 0, false
	}
	switch s[len(s)-1] {
	case 'f', 'F', 'd', 'D':
		return parseFloatNumber(s[:len(s)-1], bitSize)
	}
	return 0, false
}

// parseFloatWord parses the words NaN and Infinity with an optional sign.
func parseFloatWord(s string) (float64, bool) {
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	switch s {
	case "Infinity":
		return math.Inf(sign), true
	case "NaN":
		return math.NaN(), true
	}
	return 0, false
}

// parseFloatNumber parses a decimal or hexadecimal number. strconv's own
// spellings of infinity and NaN are rejected.
func parseFloatNumber(s string, bitSize int) (float64, bool) {
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, bitSize)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return f, true
	case err != nil, math.IsNaN(f), math.IsInf(f, 0):
		return 0, false
	}
	return f, true
}
