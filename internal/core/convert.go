package core

// convert.go coerces loosely typed cell values into canonical types.
//
// Spreadsheet cells arrive as float64, CSV cells as strings. Integer
// coercion keeps the longest leading run of digits and ignores the rest,
// so "85 marks" is 85 and "92.5" is 92; a value with no leading digits
// does not coerce at all.

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parseIntPrefix reads an optionally signed decimal integer from the start
// of v. ok is false when no digit is found.
func parseIntPrefix(v any) (n int64, ok bool) {
	s := strings.TrimLeftFunc(cellString(v), unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Only overflow can fail here; saturate like a float parse would.
		n = math.MaxInt64
	}
	if neg {
		n = -n
	}
	return n, true
}

// cellString renders a cell in its natural text form. Whole numbers print
// without a decimal point: 501 not 501.0.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// ComputePercentage returns obtained/total*100 rounded to two decimals.
// A zero total is not guarded: 0/0 yields NaN and n/0 yields ±Inf.
func ComputePercentage(obtained, total int64) Percentage {
	p := float64(obtained) / float64(total) * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Percentage(p)
	}
	return Percentage(math.Round(p*100) / 100)
}
