package pattern

import (
	"regexp"
	"strconv"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// CustomRegex matches an operator-supplied regular expression with named
// groups year, month, day, hour, minute, second, and an optional frame
// group. Groups absent from the pattern or unmatched leave their field at
// zero; frame defaults to 0 when absent, per spec §4.2.
type CustomRegex struct {
	re *regexp.Regexp
}

// NewCustomRegex compiles pattern, validating that it declares at least the
// required named groups.
func NewCustomRegex(pattern string) (CustomRegex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return CustomRegex{}, err
	}
	required := []string{"year", "month", "day", "hour", "minute", "second"}
	names := re.SubexpNames()
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, r := range required {
		if !have[r] {
			return CustomRegex{}, &InvalidPattern{Pattern: pattern, Missing: r}
		}
	}
	return CustomRegex{re: re}, nil
}

func (c CustomRegex) Match(filename string) (Fields, bool) {
	m := c.re.FindStringSubmatch(filename)
	if m == nil {
		return Fields{}, false
	}
	get := func(name string) int {
		idx := c.re.SubexpIndex(name)
		if idx < 0 || idx >= len(m) || m[idx] == "" {
			return 0
		}
		v, _ := strconv.Atoi(m[idx])
		return v
	}
	return Fields{
		Date: weavetime.Date{
			Year:  get("year"),
			Month: get("month"),
			Day:   get("day"),
		},
		Hour:   get("hour"),
		Minute: get("minute"),
		Second: get("second"),
		Frame:  get("frame"),
	}, true
}
