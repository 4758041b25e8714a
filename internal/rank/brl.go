package rank

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatBRL renders a price in Brazilian locale convention: currency prefix,
// '.' as thousands separator, ',' as decimal separator, two decimal places.
// Example: 1234.5 -> "R$ 1.234,50".
func FormatBRL(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}

	return "R$ " + sign + b.String() + "," + fracPart
}

// FormatDistance renders a pre-computed distance in kilometers with one
// decimal place, e.g. "0.8 km".
func FormatDistance(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}
