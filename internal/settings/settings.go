// Package settings defines RenderSettings and loads it from YAML, following
// the teacher's env-then-file-then-defaults configuration style.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/camtimeline/weaver/internal/weavetime"
)

// SplitMode is the layout used for Overlap segments.
type SplitMode string

const (
	SideBySide SplitMode = "side_by_side"
	Stacked    SplitMode = "stacked"
)

// SplitAlignment positions the pane within its layout. Valid values depend
// on SplitMode: {top,center,bottom} for side_by_side, {left,center,right}
// for stacked.
type SplitAlignment string

const (
	AlignTop    SplitAlignment = "top"
	AlignCenter SplitAlignment = "center"
	AlignBottom SplitAlignment = "bottom"
	AlignLeft   SplitAlignment = "left"
	AlignRight  SplitAlignment = "right"
)

// VideoCodec selects the encoder and its fixed knob table (see codecs.go).
type VideoCodec string

const (
	HEVCNVENC VideoCodec = "hevc_nvenc"
	H264NVENC VideoCodec = "h264_nvenc"
	LibX264   VideoCodec = "libx264"
	LibX265   VideoCodec = "libx265"
)

// Resolution is a width/height pair.
type Resolution struct {
	Width, Height int
}

// RenderSettings configures one render invocation. See spec §3 for the
// complete field list and defaults.
type RenderSettings struct {
	OutputResolution  Resolution         `yaml:"output_resolution"`
	OutputFPS         weavetime.Rational `yaml:"-"`
	OutputFPSNum      int64              `yaml:"output_fps_num"`
	OutputFPSDen      int64              `yaml:"output_fps_den"`
	VideoCodec        VideoCodec         `yaml:"video_codec"`
	PixelFormat       string             `yaml:"pixel_format"`
	SlateDurationUs   int64              `yaml:"slate_duration_us"`
	SlateTextTemplate string             `yaml:"slate_text_template"`
	SplitMode         SplitMode          `yaml:"split_mode"`
	SplitAlignment    SplitAlignment     `yaml:"split_alignment"`
	UseBatchRendering bool               `yaml:"use_batch_rendering"`
	BatchSize         int                `yaml:"batch_size"`
	OutputPath        string             `yaml:"output_path"`
}

// Defaults returns the spec-mandated default RenderSettings.
func Defaults() RenderSettings {
	return RenderSettings{
		OutputResolution:  Resolution{Width: 1920, Height: 1080},
		OutputFPS:         weavetime.Rational{Num: 30, Den: 1},
		OutputFPSNum:      30,
		OutputFPSDen:      1,
		VideoCodec:        LibX264,
		PixelFormat:       "yuv420p",
		SlateDurationUs:   5_000_000,
		SlateTextTemplate: "{start} – {end} ({duration})",
		SplitMode:         SideBySide,
		SplitAlignment:    AlignCenter,
		UseBatchRendering: false,
		BatchSize:         150,
	}
}

// Load reads RenderSettings from a YAML file at path, applying defaults for
// any field the file omits and expanding environment variables in
// OutputPath, mirroring the teacher's config loader precedence
// (env > file > defaults, applied here as file-overrides-defaults since
// there is no render-scoped environment namespace).
func Load(path string) (RenderSettings, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return RenderSettings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RenderSettings{}, fmt.Errorf("settings: parse %s: %w", path, err)
	}

	if cfg.OutputFPSNum > 0 && cfg.OutputFPSDen > 0 {
		fps, err := weavetime.NewRational(cfg.OutputFPSNum, cfg.OutputFPSDen)
		if err != nil {
			return RenderSettings{}, fmt.Errorf("settings: output_fps: %w", err)
		}
		cfg.OutputFPS = fps
	}

	cfg.OutputPath = os.ExpandEnv(cfg.OutputPath)

	return cfg, cfg.Validate()
}

// Validate checks the enumerated-option invariants from spec §3.
func (s RenderSettings) Validate() error {
	if s.OutputResolution.Width < 2 || s.OutputResolution.Height < 2 {
		return fmt.Errorf("settings: output_resolution must be >= 2x2, got %dx%d", s.OutputResolution.Width, s.OutputResolution.Height)
	}
	if !s.OutputFPS.Positive() {
		return fmt.Errorf("settings: output_fps must be strictly positive")
	}
	switch s.VideoCodec {
	case HEVCNVENC, H264NVENC, LibX264, LibX265:
	default:
		return fmt.Errorf("settings: unknown video_codec %q", s.VideoCodec)
	}
	switch s.SplitMode {
	case SideBySide, Stacked:
	default:
		return fmt.Errorf("settings: unknown split_mode %q", s.SplitMode)
	}
	if s.BatchSize < 1 {
		return fmt.Errorf("settings: batch_size must be positive, got %d", s.BatchSize)
	}
	if s.OutputPath == "" {
		return fmt.Errorf("settings: output_path is required")
	}
	return nil
}
