package workspace

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

var agePattern = regexp.MustCompile(`^(?:(\d+)y)?(?:(\d+)w)?(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)

var ageUnits = []time.Duration{
	365 * 24 * time.Hour,
	7 * 24 * time.Hour,
	24 * time.Hour,
	time.Hour,
	time.Minute,
	time.Second,
}

// ParseAge parses a compact age such as "7d", "1d34m" or "2w3h". Plain Go
// durations ("90m", "1h30m") are accepted too.
func ParseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, werrors.ValidationFailed("age", "must not be empty")
	}
	if m := agePattern.FindStringSubmatch(s); m != nil {
		var total time.Duration
		for i, unit := range ageUnits {
			if m[i+1] == "" {
				continue
			}
			n, err := strconv.Atoi(m[i+1])
			if err != nil {
				return 0, werrors.ValidationFailed("age", fmt.Sprintf("couldn't parse age '%s'", s))
			}
			total += time.Duration(n) * unit
		}
		return total, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, werrors.ValidationFailed("age", fmt.Sprintf("couldn't parse age '%s'", s))
	}
	return d, nil
}

// PrettyAge renders d in the compact form ParseAge reads, e.g. "1d34m".
func PrettyAge(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	var b strings.Builder
	for _, unit := range []struct {
		size   time.Duration
		suffix string
	}{
		{365 * 24 * time.Hour, "y"},
		{24 * time.Hour, "d"},
		{time.Hour, "h"},
		{time.Minute, "m"},
		{time.Second, "s"},
	} {
		if n := d / unit.size; n > 0 {
			fmt.Fprintf(&b, "%d%s", n, unit.suffix)
			d -= n * unit.size
		}
	}
	return b.String()
}
