package pricing

import (
	"strconv"
	"strings"
)

// Wheel slots encode their value as loosely formatted strings: "20%", "50",
// "₹75", "free". The bare numeric codes 50 and 100 are slot labels, not
// amounts; they map to 5 and 10 currency units. The mapping is a fixed
// business rule, kept as a lookup table rather than inferred from a formula.
var spinCodeAmounts = map[int]float64{
	50:  5,
	100: 10,
}

// SpinValue converts an encoded wheel value into a discount amount against
// the given subtotal. Unparseable values yield zero.
func SpinValue(raw string, subtotal float64) float64 {
	val := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case val == "":
		return 0
	case strings.Contains(val, "%"):
		n, ok := leadingInt(strings.Replace(val, "%", "", 1))
		if !ok {
			return 0
		}
		return subtotal * float64(n) / 100
	default:
	}

	if n, ok := leadingInt(val); ok {
		if amount, coded := spinCodeAmounts[n]; coded {
			return amount
		}
		return float64(n)
	}

	if strings.Contains(val, "₹") {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, val)
		if digits == "" {
			return 0
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return float64(n)
	}

	if strings.Contains(val, "free") || val == "yes" {
		return 50
	}

	return 0
}

// leadingInt parses the longest numeric prefix of s, so "20 off" reads as 20.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
