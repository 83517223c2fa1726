package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseTones parses a comma separated list of positive frequencies.
func parseTones(s string) ([]float64, error) {
	var tones []float64
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("tone %q: %w", field, err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("tone %q: must be positive", field)
		}
		tones = append(tones, f)
	}
	if len(tones) == 0 {
		return nil, fmt.Errorf("no tones in %q", s)
	}
	return tones, nil
}
