package weavetime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Instant is a signed count of microseconds since the Unix epoch. All
// timeline arithmetic inside the core happens in this currency; conversion
// to floating-point seconds happens only at the external-tool boundary and
// in reports.
type Instant int64

// Date is a plain calendar date (no time-of-day, no timezone). The zero
// value is "unspecified" and causes ComposeInstant to fail with
// MissingDate.
type Date struct {
	Year, Month, Day int
}

// IsZero reports whether the date is unspecified.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

const (
	microsPerSecond = 1_000_000
	microsPerDay    = 86_400 * microsPerSecond
)

// ParseSMPTE parses "HH:MM:SS:FF" against the given frame rate, returning the
// offset within a day in microseconds. Fails with *BadTimecode when any
// field is out of range: 00<=HH<24, MM<60, SS<60, FF<ceil(fps).
func ParseSMPTE(text string, fps Rational) (int64, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 4 {
		return 0, &BadTimecode{Field: "format", Value: text}
	}
	hh, err := parseField(parts[0])
	if err != nil {
		return 0, &BadTimecode{Field: "HH", Value: parts[0]}
	}
	mm, err := parseField(parts[1])
	if err != nil {
		return 0, &BadTimecode{Field: "MM", Value: parts[1]}
	}
	ss, err := parseField(parts[2])
	if err != nil {
		return 0, &BadTimecode{Field: "SS", Value: parts[2]}
	}
	ff, err := parseField(parts[3])
	if err != nil {
		return 0, &BadTimecode{Field: "FF", Value: parts[3]}
	}

	if hh < 0 || hh >= 24 {
		return 0, &BadTimecode{Field: "HH", Value: parts[0]}
	}
	if mm < 0 || mm >= 60 {
		return 0, &BadTimecode{Field: "MM", Value: parts[1]}
	}
	if ss < 0 || ss >= 60 {
		return 0, &BadTimecode{Field: "SS", Value: parts[2]}
	}
	if !fps.Positive() {
		return 0, &BadTimecode{Field: "FF", Value: "invalid frame rate"}
	}
	maxFrames := int64(math.Ceil(fps.Float64()))
	if ff < 0 || int64(ff) >= maxFrames {
		return 0, &BadTimecode{Field: "FF", Value: parts[3]}
	}

	whole := (int64(hh)*3600 + int64(mm)*60 + int64(ss)) * microsPerSecond
	frameMicros := roundHalfEven(int64(ff)*microsPerSecond*fps.Den, fps.Num)
	return whole + frameMicros, nil
}

func parseField(s string) (int, error) {
	return strconv.Atoi(s)
}

// ComposeInstant anchors a SMPTE-day offset to a calendar date, producing an
// absolute Instant. Fails with *MissingDate if date is unspecified.
func ComposeInstant(date Date, smpteOffsetUs int64) (Instant, error) {
	if date.IsZero() {
		return 0, &MissingDate{}
	}
	dayStart := time.Date(date.Year, time.Month(date.Month), date.Day, 0, 0, 0, 0, time.UTC)
	return Instant(dayStart.UnixMicro() + smpteOffsetUs), nil
}

// FormatInstant renders an Instant as an RFC3339 string with microsecond
// precision.
func FormatInstant(i Instant) string {
	return time.UnixMicro(int64(i)).UTC().Format("2006-01-02T15:04:05.000000Z07:00")
}

// FormatSMPTE renders an Instant as "HH:MM:SS:FF" within its containing day,
// against the given frame rate.
func FormatSMPTE(i Instant, fps Rational) string {
	us := int64(i)
	dayOffset := ((us % microsPerDay) + microsPerDay) % microsPerDay

	totalSeconds := dayOffset / microsPerSecond
	subSecondUs := dayOffset % microsPerSecond

	hh := totalSeconds / 3600
	mm := (totalSeconds % 3600) / 60
	ss := totalSeconds % 60

	var ff int64
	if fps.Positive() {
		ff = roundHalfEven(subSecondUs*fps.Num, fps.Den*microsPerSecond)
	}

	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}

// roundHalfEven computes round(num/den) using banker's rounding (round half
// to even), for non-negative num and positive den.
func roundHalfEven(num, den int64) int64 {
	if den <= 0 {
		return 0
	}
	q := num / den
	r := num % den
	twiceR := 2 * r
	switch {
	case twiceR < den:
		return q
	case twiceR > den:
		return q + 1
	default:
		if q%2 == 0 {
			return q
		}
		return q + 1
	}
}
