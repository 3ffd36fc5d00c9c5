package clip

import (
	"testing"

	"github.com/camtimeline/weaver/internal/pattern"
	"github.com/camtimeline/weaver/internal/weavetime"
)

func TestDeriveCameraID_ParentDirMatches(t *testing.T) {
	got := DeriveCameraID("/footage/A02/20260730140000.mp4")
	if got != "A02" {
		t.Errorf("got %q, want A02", got)
	}
}

func TestDeriveCameraID_LeadingFilenameToken(t *testing.T) {
	got := DeriveCameraID("/footage/misc/A04_20260730140000.mp4")
	if got != "A04" {
		t.Errorf("got %q, want A04", got)
	}
}

func TestDeriveCameraID_FallsBackToParentVerbatim(t *testing.T) {
	got := DeriveCameraID("/footage/lobby/clip001.mp4")
	if got != "lobby" {
		t.Errorf("got %q, want lobby", got)
	}
}

func validFields() pattern.Fields {
	return pattern.Fields{
		Date:   weavetime.Date{Year: 2026, Month: 7, Day: 30},
		Hour:   14,
		Minute: 0,
		Second: 0,
	}
}

func TestAssemble_HappyPath(t *testing.T) {
	rec, err := Assemble("/footage/A02/clip.mp4", validFields(), ProbeResult{
		DurationUs: 60_000_000,
		FrameRate:  weavetime.Rational{Num: 30, Den: 1},
		Width:      1920, Height: 1080,
		CodecName: "h264", PixelFormat: "yuv420p",
		OK: true,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if rec.CameraID != "A02" {
		t.Errorf("CameraID = %q", rec.CameraID)
	}
	if rec.DurationUs != 60_000_000 {
		t.Errorf("DurationUs = %d", rec.DurationUs)
	}
	if rec.EndInstant != rec.StartInstant+60_000_000 {
		t.Errorf("EndInstant not StartInstant+DurationUs")
	}
}

func TestAssemble_ProbeFailedButDurationFallbackAdmits(t *testing.T) {
	rec, err := Assemble("/footage/A02/clip.mp4", validFields(), ProbeResult{
		DurationUs: 2_000_000,
		OK:         false,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if rec.Width != defaultWidth || rec.Height != defaultHeight {
		t.Errorf("expected default resolution, got %dx%d", rec.Width, rec.Height)
	}
	if rec.ProbeOK {
		t.Error("expected ProbeOK = false")
	}
}

func TestAssemble_DropsWhenBelowMinimumAndProbeFailed(t *testing.T) {
	_, err := Assemble("/footage/A02/clip.mp4", validFields(), ProbeResult{
		DurationUs: 0,
		OK:         false,
	})
	if err == nil {
		t.Fatal("expected Dropped error")
	}
	if _, ok := err.(*Dropped); !ok {
		t.Errorf("expected *Dropped, got %T", err)
	}
}

func TestAssemble_MissingDate(t *testing.T) {
	f := validFields()
	f.Date = weavetime.Date{}
	_, err := Assemble("/footage/A02/clip.mp4", f, ProbeResult{DurationUs: 1_000_000, OK: true})
	if _, ok := err.(*weavetime.MissingDate); !ok {
		t.Errorf("expected *weavetime.MissingDate, got %T (%v)", err, err)
	}
}

func TestAssembleAll_DeduplicatesKeepingFirst(t *testing.T) {
	in := []Input{
		{SourcePath: "/footage/A02/a.mp4", Fields: validFields(), Probe: ProbeResult{DurationUs: 1_000_000, OK: true}},
		{SourcePath: "/footage/A02/a-dup.mp4", Fields: validFields(), Probe: ProbeResult{DurationUs: 1_000_000, OK: true}},
	}
	records, skipped := AssembleAll(in)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 deduplicated record, got %d", len(records))
	}
	if records[0].SourcePath != "/footage/A02/a.mp4" {
		t.Errorf("expected first record kept, got %q", records[0].SourcePath)
	}
}

func TestAssembleAll_SkipsAndContinues(t *testing.T) {
	badFields := pattern.Fields{} // zero date -> MissingDate
	in := []Input{
		{SourcePath: "/footage/A02/bad.mp4", Fields: badFields, Probe: ProbeResult{DurationUs: 1_000_000, OK: true}},
		{SourcePath: "/footage/A02/good.mp4", Fields: validFields(), Probe: ProbeResult{DurationUs: 1_000_000, OK: true}},
	}
	records, skipped := AssembleAll(in)
	if len(skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(skipped))
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}
