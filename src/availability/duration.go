package availability

import (
	"regexp"
	"strconv"
)

var (
	dayTokenRe = regexp.MustCompile(`(?i)(\d+)\s*(?:d(?:ays?)?\b|hari)`)
	digitsRe   = regexp.MustCompile(`\d+`)
)

// ParseDurationDays extracts the number of days from a free-text duration
// descriptor ("3D2N", "2 hari 1 malam", "4 days 3 nights"). The first
// integer carrying an explicit day unit wins; otherwise the first digit
// run; an unparsable descriptor is 1 day. Pricing and receipt rendering
// both go through here so the two can never disagree.
func ParseDurationDays(descriptor string) int {
	if m := dayTokenRe.FindStringSubmatch(descriptor); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := digitsRe.FindString(descriptor); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 {
			return n
		}
	}
	return 1
}
