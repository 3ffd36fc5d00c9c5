package timeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// RenderSlateText expands {start}, {end}, {duration} in template against a
// Gap segment's bounds.
func RenderSlateText(template string, t0, t1 weavetime.Instant) string {
	r := strings.NewReplacer(
		"{start}", weavetime.FormatInstant(t0),
		"{end}", weavetime.FormatInstant(t1),
		"{duration}", FormatDuration(int64(t1-t0)),
	)
	return r.Replace(template)
}

// FormatDuration renders a microsecond duration as "Hh Mm Ss" with leading
// zero components suppressed; seconds is always present, even when 0.
func FormatDuration(us int64) string {
	if us < 0 {
		us = 0
	}
	totalSeconds := us / 1_000_000
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60

	var parts []string
	if h > 0 {
		parts = append(parts, strconv.FormatInt(h, 10)+"h")
	}
	if h > 0 || m > 0 {
		parts = append(parts, strconv.FormatInt(m, 10)+"m")
	}
	parts = append(parts, fmt.Sprintf("%ds", s))
	return strings.Join(parts, " ")
}
