package bricklink

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumericRegex = regexp.MustCompile(`[^0-9.]`)
var leadingNumberRegex = regexp.MustCompile(`^[0-9]*(?:\.[0-9]*)?`)

// ParsePrice reads a number out of the text of a price guide cell.
//
// everything but digits and `.` is dropped, then the longest leading decimal
// is parsed, so "US $1,234.50" is 1234.5 and "1.2.3" is 1.2. text without
// any digit is NaN.
func ParsePrice(text string) float64 {
	stripped := nonNumericRegex.ReplaceAllString(strings.TrimSpace(text), "")
	number := leadingNumberRegex.FindString(stripped)
	if strings.Trim(number, ".") == "" {
		return math.NaN()
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}
