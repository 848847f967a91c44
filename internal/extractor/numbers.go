package extractor

import (
	"strconv"
	"strings"
)

// parseNumber converts a comma-grouped decimal string ("86,000") to a
// float. The second return is false for anything that does not parse;
// callers treat that as "field absent", never as an error.
func parseNumber(s string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseNumberInRange parses and additionally enforces bounds. The
// bounds are checked with the given inclusivity so detectors can fall
// through to their next pattern on an out-of-range hit.
func parseNumberInRange(s string, min, max float64, inclusive bool) (float64, bool) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	if inclusive {
		if v < min || v > max {
			return 0, false
		}
	} else {
		if v <= min || v >= max {
			return 0, false
		}
	}
	return v, true
}
