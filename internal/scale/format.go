package scale

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatGrouped renders v with thousands grouping ("1,200", "12.5").
func FormatGrouped(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return printer.Sprintf("%d", int64(v))
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}
	grouped := printer.Sprintf("%d", n)
	if n == 0 && v < 0 {
		grouped = "-0"
	}
	return grouped + "." + frac
}

// FormatTick rounds v to an integer and groups thousands, as used for value-axis labels.
func FormatTick(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}
