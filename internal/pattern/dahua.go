package pattern

import (
	"regexp"
	"strconv"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// dahuaStampRe matches an optional camera prefix followed by a 14-digit
// YYYYMMDDHHMMSS stamp, e.g. "CAM01_20260730143022.mp4" or
// "20260730143022.mp4".
var dahuaStampRe = regexp.MustCompile(`(?:^|_)(?P<prefix>[A-Za-z0-9]+_)?(?P<stamp>\d{14})(?:[_.]|$)`)

// DahuaStamp matches the Dahua-style 14-digit timestamp:
// {camera_prefix?}_{YYYY}{MM}{DD}{HH}{MM}{SS}.
type DahuaStamp struct{}

func (DahuaStamp) Match(filename string) (Fields, bool) {
	m := dahuaStampRe.FindStringSubmatch(filename)
	if m == nil {
		return Fields{}, false
	}
	stamp := m[dahuaStampRe.SubexpIndex("stamp")]
	year, _ := strconv.Atoi(stamp[0:4])
	month, _ := strconv.Atoi(stamp[4:6])
	day, _ := strconv.Atoi(stamp[6:8])
	hour, _ := strconv.Atoi(stamp[8:10])
	minute, _ := strconv.Atoi(stamp[10:12])
	second, _ := strconv.Atoi(stamp[12:14])

	prefix := m[dahuaStampRe.SubexpIndex("prefix")]
	var cameraHint string
	if len(prefix) > 1 {
		cameraHint = prefix[:len(prefix)-1]
	}

	return Fields{
		Date:       weavetime.Date{Year: year, Month: month, Day: day},
		Hour:       hour,
		Minute:     minute,
		Second:     second,
		CameraHint: cameraHint,
	}, true
}
