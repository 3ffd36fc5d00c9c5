package pattern

import (
	"regexp"
	"strconv"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// compactRe matches a bare 6-digit HHMMSS token bounded by non-digits (or
// the ends of the string), distinct from the 14-digit Dahua stamp.
var compactRe = regexp.MustCompile(`(?:^|\D)(\d{6})(?:\D|$)`)

// CompactHHMMSS matches a bare {HHMMSS} token. It always extracts the
// time-of-day fields; the date comes from DefaultDate, supplied externally
// (spec §6). When DefaultDate is unspecified, the match still succeeds here
// — ComposeInstant is what surfaces MissingDate, per spec §4.2.
type CompactHHMMSS struct {
	DefaultDate weavetime.Date
}

func (c CompactHHMMSS) Match(filename string) (Fields, bool) {
	m := compactRe.FindStringSubmatch(filename)
	if m == nil {
		return Fields{}, false
	}
	stamp := m[1]
	hour, _ := strconv.Atoi(stamp[0:2])
	minute, _ := strconv.Atoi(stamp[2:4])
	second, _ := strconv.Atoi(stamp[4:6])

	return Fields{
		Date:   c.DefaultDate,
		Hour:   hour,
		Minute: minute,
		Second: second,
	}, true
}
