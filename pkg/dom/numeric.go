package dom

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	integerPrefix = regexp.MustCompile(`^[-+]?[0-9]+`)
	floatPrefix   = regexp.MustCompile(`^[-+]?([0-9]+(\.[0-9]+)?|\.[0-9]+)([eE][-+]?[0-9]+)?`)
)

// listItemValue is the reflected value of an li: the leading integer of its
// value attribute, 0 when absent or unparsable.
func listItemValue(n *html.Node) string {
	raw, _ := attr(n, "value")
	match := integerPrefix.FindString(trimLeadingSpace(raw))
	v, err := strconv.ParseInt(match, 10, 32)
	if err != nil {
		return "0"
	}
	return strconv.FormatInt(v, 10)
}

// progressValue clamps value into [0, max]; max defaults to 1.
func progressValue(n *html.Node) string {
	maxV, ok := floatAttr(n, "max")
	if !ok || maxV <= 0 {
		maxV = 1
	}
	v, ok := floatAttr(n, "value")
	if !ok || v < 0 {
		v = 0
	}
	return formatNumber(min(v, maxV))
}

// meterValue clamps value into [min, max]; the bounds default to 0 and 1 and
// max never drops below min.
func meterValue(n *html.Node) string {
	lo, ok := floatAttr(n, "min")
	if !ok {
		lo = 0
	}
	hi, ok := floatAttr(n, "max")
	if !ok {
		hi = 1
	}
	hi = max(hi, lo)
	v, ok := floatAttr(n, "value")
	if !ok {
		v = 0
	}
	return formatNumber(min(max(v, lo), hi))
}

func floatAttr(n *html.Node, name string) (float64, bool) {
	raw, ok := attr(n, name)
	if !ok {
		return 0, false
	}
	match := floatPrefix.FindString(trimLeadingSpace(raw))
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func trimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, isASCIISpace)
}

func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
