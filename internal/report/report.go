// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package report normalizes ClipRecord values into the stable, writer-
// agnostic field set consumed by the CSV and JSON emitters.
package report

import (
	"path/filepath"

	"github.com/camtimeline/weaver/internal/clip"
	"github.com/camtimeline/weaver/internal/weavetime"
)

// Record is one report row. Field names and order are part of the external
// contract: CSV headers and JSON object keys both follow this shape.
type Record struct {
	Filename        string  `json:"filename"`
	SourcePath      string  `json:"source_path"`
	CameraID        string  `json:"camera_id"`
	SMPTETimecode   string  `json:"smpte_timecode"`
	StartISO        string  `json:"start_iso"`
	EndISO          string  `json:"end_iso"`
	DurationSeconds float64 `json:"duration_seconds"`
	FrameRateNum    int64   `json:"frame_rate_num"`
	FrameRateDen    int64   `json:"frame_rate_den"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	CodecName       string  `json:"codec_name"`
	PixelFormat     string  `json:"pixel_format"`
	ProbeOK         bool    `json:"probe_ok"`
}

// FromClipRecord converts one ClipRecord into its report Record.
func FromClipRecord(c clip.ClipRecord) Record {
	return Record{
		Filename:        filepath.Base(c.SourcePath),
		SourcePath:      c.SourcePath,
		CameraID:        c.CameraID,
		SMPTETimecode:   weavetime.FormatSMPTE(c.StartInstant, c.FrameRate),
		StartISO:        weavetime.FormatInstant(c.StartInstant),
		EndISO:          weavetime.FormatInstant(c.EndInstant),
		DurationSeconds: float64(c.DurationUs) / 1_000_000,
		FrameRateNum:    c.FrameRate.Num,
		FrameRateDen:    c.FrameRate.Den,
		Width:           c.Width,
		Height:          c.Height,
		CodecName:       c.CodecName,
		PixelFormat:     c.PixelFormat,
		ProbeOK:         c.ProbeOK,
	}
}

// FromClipRecords converts an ordered clip list into report records.
func FromClipRecords(clips []clip.ClipRecord) []Record {
	records := make([]Record, len(clips))
	for i, c := range clips {
		records[i] = FromClipRecord(c)
	}
	return records
}
