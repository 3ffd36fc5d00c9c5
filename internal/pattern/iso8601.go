package pattern

import (
	"regexp"
	"strconv"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// iso8601Re matches {YYYY}-{MM}-{DD}T{HH}:{MM}:{SS}, optionally embedded
// inside a longer filename.
var iso8601Re = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})`)

// ISO8601 matches the ISO-8601 date/time pattern.
type ISO8601 struct{}

func (ISO8601) Match(filename string) (Fields, bool) {
	m := iso8601Re.FindStringSubmatch(filename)
	if m == nil {
		return Fields{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])

	return Fields{
		Date:   weavetime.Date{Year: year, Month: month, Day: day},
		Hour:   hour,
		Minute: minute,
		Second: second,
	}, true
}
