package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/tickdone/tickdone/internal/domain"
)

const defaultMinutes = domain.DefaultDuration

var unitRegex = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-zA-Z]+)$`)

// forbiddenUnits are granularities too coarse for a task estimate.
// A token carrying one of these falls back to the default with a warning.
var forbiddenUnits = map[string]bool{
	"d": true, "day": true, "days": true,
	"w": true, "wk": true, "week": true, "weeks": true,
	"mo": true, "month": true, "months": true,
	"y": true, "yr": true, "year": true, "years": true,
}

// ParseDuration parses a duration token into minutes.
//
// Accepted forms:
//   - two-digit preset starting with 0 ("01".."04") per domain.CountdownPresets
//   - <number><unit> where unit is m, min, or h (hours convert to minutes, rounded)
//   - bare positive integer, taken as minutes
//
// Day-or-coarser units are rejected: the result is the 60-minute default with
// a warning describing the rejection. Anything else unparseable silently
// defaults to 60 minutes.
func ParseDuration(tok string) (minutes int, warning string) {
	if len(tok) == 2 && tok[0] == '0' {
		if preset, ok := domain.CountdownPresets[tok]; ok {
			return preset, ""
		}
	}

	if m := unitRegex.FindStringSubmatch(tok); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil || value <= 0 {
			return defaultMinutes, ""
		}
		unit := m[2]
		switch unit {
		case "m", "min":
			return int(math.Round(value)), ""
		case "h":
			return int(math.Round(value * 60)), ""
		}
		if forbiddenUnits[unit] {
			return defaultMinutes, fmt.Sprintf(
				"unit %q is too coarse for a task estimate, using default %dm", unit, defaultMinutes)
		}
		return defaultMinutes, ""
	}

	if n, err := strconv.Atoi(tok); err == nil && n > 0 {
		return n, ""
	}

	return defaultMinutes, ""
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
