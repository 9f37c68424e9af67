// Package numeric normalizes the quantity and price values coming back from
// the pharmacy stock feed. Quantities arrive as strings more often than not
// and use either dot or comma decimal separators depending on which pharmacy
// chain exported them.
package numeric

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// ParseQuantity parses a raw quantity value into a float. It never fails:
// empty or non-numeric input yields 0.
func ParseQuantity(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// FormatQuantity renders a quantity for display: rounded to 3 decimal
// places with trailing zeros and a trailing decimal point stripped,
// so 2.000 becomes "2" and 2.500 becomes "2.5".
func FormatQuantity(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	rounded := math.Round(n*1000) / 1000
	s := strconv.FormatFloat(rounded, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// FormatPrice renders a price with the fixed currency suffix. The server
// already rounds prices; no additional rounding policy is applied here.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + " Br"
}

// Flex is a float64 that unmarshals from either a JSON number or a JSON
// string. Malformed values decode to 0 rather than failing the whole
// response.
type Flex float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			*f = 0
			return nil
		}
		*f = Flex(ParseQuantity(unquoted))
		return nil
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Flex(n)
	return nil
}

// Float64 returns the underlying value.
func (f Flex) Float64() float64 {
	return float64(f)
}
