package nbastats

import (
	"regexp"
	"strconv"
	"strings"
)

var isoMinutesRe = regexp.MustCompile(`^PT(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?$`)

// ParseMinutes converts the provider's assorted minutes formats to a float.
// The live feed uses ISO 8601 durations ("PT24M30.00S"), historical logs use
// plain numbers, and box scores sometimes use "MM:SS". Empty and "DNP" map
// to zero.
func ParseMinutes(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "DNP") {
		return 0
	}

	if m := isoMinutesRe.FindStringSubmatch(raw); m != nil {
		mins := 0.0
		if m[1] != "" {
			v, _ := strconv.ParseFloat(m[1], 64)
			mins = v
		}
		if m[2] != "" {
			v, _ := strconv.ParseFloat(m[2], 64)
			mins += v / 60
		}
		return mins
	}

	if i := strings.IndexByte(raw, ':'); i >= 0 {
		mins, err1 := strconv.ParseFloat(raw[:i], 64)
		secs, err2 := strconv.ParseFloat(raw[i+1:], 64)
		if err1 == nil && err2 == nil {
			return mins + secs/60
		}
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	// Some feeds report seconds rather than minutes.
	if v > 100 {
		return v / 60
	}
	return v
}
