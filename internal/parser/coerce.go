package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/csvlens-cli/internal/dataset"
)

var (
	numberPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	// A date must lead with YYYY-MM-DD or MM/DD/YYYY; the layouts below then
	// decide whether the remainder is an acceptable time of day.
	datePattern = regexp.MustCompile(`^(?:\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})`)
	dateLayouts = []string{
		"2006-01-02",
		"01/02/2006",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"01/02/2006 15:04:05",
		"01/02/2006 15:04",
	}
)

// Coerce converts one raw cell. Numbers win over dates, dates over text; the
// empty string is null. Text keeps the raw, untrimmed string.
func Coerce(raw string) dataset.Value {
	s := strings.TrimSpace(raw)
	if f, ok := parseNumber(s); ok {
		return dataset.Number(f)
	}
	if t, ok := parseDate(s); ok {
		return dataset.Date(t)
	}
	return dataset.Text(raw)
}

func parseNumber(s string) (float64, bool) {
	if s == "" || !numberPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseDate(s string) (time.Time, bool) {
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
