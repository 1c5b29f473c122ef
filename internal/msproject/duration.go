package msproject

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPartRe = regexp.MustCompile(`(\d+(?:\.\d+)?)([DHMS])`)

// ParseWork decodes an MS Project duration such as "PT8H0M0S" or
// "P2DT4H0M0S". Days count as 24 hours. It returns false for anything that is
// not a P-prefixed duration.
func ParseWork(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != 'P' {
		return 0, false
	}
	body := s[1:]
	datePart, timePart, hasTime := strings.Cut(body, "T")
	if !hasTime {
		datePart, timePart = body, ""
	}
	if !fullyMatched(datePart, "D") || !fullyMatched(timePart, "HMS") {
		return 0, false
	}

	var total time.Duration
	for _, m := range durationPartRe.FindAllStringSubmatch(datePart+timePart, -1) {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		var unit time.Duration
		switch m[2] {
		case "D":
			unit = 24 * time.Hour
		case "H":
			unit = time.Hour
		case "M":
			unit = time.Minute
		case "S":
			unit = time.Second
		}
		total += time.Duration(value * float64(unit))
	}
	return total, true
}

// fullyMatched reports whether s consists only of number+unit pairs whose
// units are drawn from allowed.
func fullyMatched(s, allowed string) bool {
	rest := s
	for _, loc := range durationPartRe.FindAllStringSubmatchIndex(s, -1) {
		if !strings.Contains(allowed, s[loc[4]:loc[5]]) {
			return false
		}
		rest = strings.Replace(rest, s[loc[0]:loc[1]], "", 1)
	}
	return rest == ""
}
