package pattern

import (
	"testing"

	"github.com/camtimeline/weaver/internal/weavetime"
)

func TestDahuaStamp_WithCameraPrefix(t *testing.T) {
	f, ok := DahuaStamp{}.Match("CAM01_20260730143022.mp4")
	if !ok {
		t.Fatal("expected match")
	}
	if f.Date != (weavetime.Date{Year: 2026, Month: 7, Day: 30}) {
		t.Errorf("date = %+v", f.Date)
	}
	if f.Hour != 14 || f.Minute != 30 || f.Second != 22 {
		t.Errorf("time = %02d:%02d:%02d", f.Hour, f.Minute, f.Second)
	}
	if f.CameraHint != "CAM01" {
		t.Errorf("CameraHint = %q", f.CameraHint)
	}
}

func TestDahuaStamp_WithoutPrefix(t *testing.T) {
	f, ok := DahuaStamp{}.Match("20260730143022.mp4")
	if !ok {
		t.Fatal("expected match")
	}
	if f.CameraHint != "" {
		t.Errorf("CameraHint = %q, want empty", f.CameraHint)
	}
}

func TestISO8601_Match(t *testing.T) {
	f, ok := ISO8601{}.Match("clip_2026-07-30T14:30:22_extra.mp4")
	if !ok {
		t.Fatal("expected match")
	}
	if f.Date != (weavetime.Date{Year: 2026, Month: 7, Day: 30}) || f.Hour != 14 || f.Minute != 30 || f.Second != 22 {
		t.Errorf("fields = %+v", f)
	}
}

func TestCompactHHMMSS_NoExternalDate(t *testing.T) {
	c := CompactHHMMSS{}
	f, ok := c.Match("front_143022.mp4")
	if !ok {
		t.Fatal("expected match")
	}
	if !f.Date.IsZero() {
		t.Errorf("expected zero date, got %+v", f.Date)
	}
	if f.Hour != 14 || f.Minute != 30 || f.Second != 22 {
		t.Errorf("time = %02d:%02d:%02d", f.Hour, f.Minute, f.Second)
	}
}

func TestCompactHHMMSS_WithExternalDate(t *testing.T) {
	defaultDate := weavetime.Date{Year: 2026, Month: 1, Day: 1}
	c := CompactHHMMSS{DefaultDate: defaultDate}
	f, ok := c.Match("front_143022.mp4")
	if !ok {
		t.Fatal("expected match")
	}
	if f.Date != defaultDate {
		t.Errorf("date = %+v, want %+v", f.Date, defaultDate)
	}
}

func TestCustomRegex_RequiresNamedGroups(t *testing.T) {
	if _, err := NewCustomRegex(`(?P<year>\d{4})`); err == nil {
		t.Fatal("expected error for missing groups")
	}
}

func TestCustomRegex_Match(t *testing.T) {
	re, err := NewCustomRegex(`(?P<year>\d{4})(?P<month>\d{2})(?P<day>\d{2})-(?P<hour>\d{2})(?P<minute>\d{2})(?P<second>\d{2})(?:-(?P<frame>\d{2}))?`)
	if err != nil {
		t.Fatalf("NewCustomRegex: %v", err)
	}
	f, ok := re.Match("20260730-143022-07.mp4")
	if !ok {
		t.Fatal("expected match")
	}
	if f.Frame != 7 {
		t.Errorf("frame = %d, want 7", f.Frame)
	}

	f2, ok := re.Match("20260730-143022.mp4")
	if !ok {
		t.Fatal("expected match without frame group")
	}
	if f2.Frame != 0 {
		t.Errorf("frame = %d, want 0 (default)", f2.Frame)
	}
}

func TestResolver_OrderDeterminesWinner(t *testing.T) {
	r, err := DefaultResolver(weavetime.Date{Year: 2020, Month: 1, Day: 1}, "")
	if err != nil {
		t.Fatalf("DefaultResolver: %v", err)
	}
	// A 14-digit Dahua stamp also contains an embeddable 6-digit substring;
	// Dahua must win because it is tried first.
	f, err := r.Resolve("20260730143022.mp4")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if f.Date.Year != 2026 {
		t.Errorf("expected the Dahua-derived year 2026, got %d (compact fallback may have won)", f.Date.Year)
	}
}

func TestResolver_NoMatch(t *testing.T) {
	r := NewResolver(ISO8601{})
	_, err := r.Resolve("no_timecode_here.mp4")
	if err == nil {
		t.Fatal("expected NoPatternMatch")
	}
	if _, ok := err.(*NoPatternMatch); !ok {
		t.Errorf("expected *NoPatternMatch, got %T", err)
	}
}

func TestFields_Offset(t *testing.T) {
	fps, _ := weavetime.NewRational(25, 1)
	f := Fields{Hour: 1, Minute: 2, Second: 3, Frame: 4}
	offset, err := f.Offset(fps)
	if err != nil {
		t.Fatalf("Offset: %v", err)
	}
	if offset <= 0 {
		t.Errorf("offset = %d, want > 0", offset)
	}
}
