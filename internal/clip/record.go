// Package clip combines pattern-resolver output and prober output into
// normalized ClipRecord values, deriving each clip's camera identifier from
// its filesystem path.
package clip

import (
	"path/filepath"
	"regexp"

	"github.com/camtimeline/weaver/internal/pattern"
	"github.com/camtimeline/weaver/internal/weavetime"
)

// defaultWidth/defaultHeight are used when a probe fails to report a
// resolution.
const (
	defaultWidth  = 1920
	defaultHeight = 1080

	// minDurationUs is the minimum admissible clip duration.
	minDurationUs = 1000
)

// ClipRecord is a normalized, self-contained description of one input clip.
type ClipRecord struct {
	SourcePath   string
	CameraID     string
	StartInstant weavetime.Instant
	DurationUs   int64
	EndInstant   weavetime.Instant
	FrameRate    weavetime.Rational
	Width        int
	Height       int
	CodecName    string
	PixelFormat  string
	ProbeOK      bool
}

// ProbeResult is the subset of prober output clip assembly consumes. It is
// defined here (rather than importing internal/prober) so this package has
// no dependency on how probing is implemented — only on the shape of what
// it produces.
type ProbeResult struct {
	DurationUs  int64
	FrameRate   weavetime.Rational
	Width       int
	Height      int
	CodecName   string
	PixelFormat string
	OK          bool
}

var cameraIDExact = regexp.MustCompile(`^[A-Z]\d{2,3}$`)
var cameraIDLeading = regexp.MustCompile(`^[A-Z]\d{2,3}`)

// DeriveCameraID applies the three-rule fallback: immediate parent directory
// if it matches the camera-ID shape, else a leading filename token of the
// same shape, else the parent directory name verbatim.
func DeriveCameraID(sourcePath string) string {
	dir := filepath.Base(filepath.Dir(sourcePath))
	if cameraIDExact.MatchString(dir) {
		return dir
	}
	base := filepath.Base(sourcePath)
	if tok := cameraIDLeading.FindString(base); tok != "" {
		return tok
	}
	return dir
}

// Assemble combines a filename-resolved Fields value and a probe result into
// a ClipRecord, anchoring the SMPTE offset to an absolute instant. Records
// whose duration falls below the 1ms minimum and whose probe failed are
// dropped with *Dropped; all other probe failures still admit the record
// with documented defaults, per spec.
func Assemble(sourcePath string, fields pattern.Fields, probe ProbeResult) (ClipRecord, error) {
	fps := probe.FrameRate
	if !fps.Positive() {
		fps = weavetime.Rational{Num: 30, Den: 1}
	}

	offset, err := fields.Offset(fps)
	if err != nil {
		return ClipRecord{}, err
	}
	start, err := weavetime.ComposeInstant(fields.Date, offset)
	if err != nil {
		return ClipRecord{}, err
	}

	duration := probe.DurationUs
	if duration < minDurationUs {
		if !probe.OK {
			return ClipRecord{}, &Dropped{Path: sourcePath, Reason: "duration below 1ms minimum and probe failed"}
		}
		duration = minDurationUs
	}

	width, height := probe.Width, probe.Height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}

	rec := ClipRecord{
		SourcePath:   sourcePath,
		CameraID:     DeriveCameraID(sourcePath),
		StartInstant: start,
		DurationUs:   duration,
		EndInstant:   start + weavetime.Instant(duration),
		FrameRate:    fps,
		Width:        width,
		Height:       height,
		CodecName:    probe.CodecName,
		PixelFormat:  probe.PixelFormat,
		ProbeOK:      probe.OK,
	}
	return rec, nil
}

// Input pairs a source path with its resolved pattern Fields and probe
// result, for use with AssembleAll.
type Input struct {
	SourcePath string
	Fields     pattern.Fields
	Probe      ProbeResult
}

// AssembleAll assembles every input, skipping (and reporting) any that fail,
// then deduplicates records sharing an identical (camera_id, start_instant,
// end_instant) triple, keeping the first occurrence.
func AssembleAll(inputs []Input) (records []ClipRecord, skipped []error) {
	type key struct {
		camera     string
		start, end weavetime.Instant
	}
	seen := make(map[key]bool, len(inputs))

	for _, in := range inputs {
		rec, err := Assemble(in.SourcePath, in.Fields, in.Probe)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		k := key{rec.CameraID, rec.StartInstant, rec.EndInstant}
		if seen[k] {
			continue
		}
		seen[k] = true
		records = append(records, rec)
	}
	return records, skipped
}
