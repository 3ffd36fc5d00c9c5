// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"encoding/csv"
	"strconv"

	"github.com/google/renameio/v2"
)

var csvHeader = []string{
	"filename", "source_path", "camera_id", "smpte_timecode", "start_iso", "end_iso",
	"duration_seconds", "frame_rate_num", "frame_rate_den", "width", "height",
	"codec_name", "pixel_format", "probe_ok",
}

func (r Record) row() []string {
	return []string{
		r.Filename,
		r.SourcePath,
		r.CameraID,
		r.SMPTETimecode,
		r.StartISO,
		r.EndISO,
		strconv.FormatFloat(r.DurationSeconds, 'f', 6, 64),
		strconv.FormatInt(r.FrameRateNum, 10),
		strconv.FormatInt(r.FrameRateDen, 10),
		strconv.Itoa(r.Width),
		strconv.Itoa(r.Height),
		r.CodecName,
		r.PixelFormat,
		strconv.FormatBool(r.ProbeOK),
	}
}

// WriteCSV atomically writes records to path as a header row followed by
// one row per record, in order.
func WriteCSV(path string, records []Record) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	w := csv.NewWriter(pending)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return pending.CloseAtomicallyReplace()
}
