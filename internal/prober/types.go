// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package prober invokes the external media tool's JSON probe mode to
// extract duration, frame rate, resolution, codec, and pixel format from a
// source file, with an on-disk cache keyed by path + size + mtime.
package prober

import "github.com/camtimeline/weaver/internal/weavetime"

// Result is the normalized outcome of probing one file. It mirrors
// clip.ProbeResult in shape so the caller can translate field-by-field
// without this package importing internal/clip.
type Result struct {
	DurationUs int64
	FrameRate  weavetime.Rational
	Width      int
	Height     int
	CodecName  string
	PixelFormat string
	OK         bool
}

// rawProbe is the subset of ffprobe's JSON output this package consumes.
type rawProbe struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []rawStream `json:"streams"`
}

type rawStream struct {
	CodecType     string `json:"codec_type"`
	CodecName     string `json:"codec_name"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	PixFmt        string `json:"pix_fmt"`
	RFrameRate    string `json:"r_frame_rate"`
	AvgFrameRate  string `json:"avg_frame_rate"`
	Duration      string `json:"duration"`
	DurationTS    int64  `json:"duration_ts"`
	TimeBase      string `json:"time_base"`
	NbFrames      string `json:"nb_frames"`
}
