package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseTime accepts plain seconds ("90", "12.5") or colon forms ("1:30",
// "1:02:03.5"). Fields after the first must be below 60.
func parseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty time")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid time %q: field %q out of range", s, p)
		}
		total = total*60 + v
	}
	return total, nil
}

type timeRange struct {
	Start float64
	End   float64
}

// parseRange parses "START-END" where both ends use parseTime syntax.
func parseRange(s string) (timeRange, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return timeRange{}, fmt.Errorf("invalid segment %q: want START-END", s)
	}
	start, err := parseTime(a)
	if err != nil {
		return timeRange{}, fmt.Errorf("invalid segment %q: %w", s, err)
	}
	end, err := parseTime(b)
	if err != nil {
		return timeRange{}, fmt.Errorf("invalid segment %q: %w", s, err)
	}
	if end <= start {
		return timeRange{}, fmt.Errorf("invalid segment %q: end must be after start", s)
	}
	return timeRange{Start: start, End: end}, nil
}
