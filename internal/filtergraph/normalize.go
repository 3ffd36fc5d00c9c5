package filtergraph

import (
	"fmt"
	"strings"

	"github.com/camtimeline/weaver/internal/settings"
	"github.com/camtimeline/weaver/internal/timeline"
)

// normalizeChain applies the seven-step chain (timebase, setpts, fps, scale,
// pad, setsar, format) to src, targeting pane w x h, and tags the result
// outLabel. padX/padY are the pad filter's offset expressions, letting
// callers control where undersized content sits within its pane.
func normalizeChain(src string, w, h int, padX, padY string, rs settings.RenderSettings, outLabel string) string {
	fps := fmt.Sprintf("%d/%d", rs.OutputFPS.Num, rs.OutputFPS.Den)
	steps := []string{
		src,
		"settb=AVTB",
		"setpts=PTS-STARTPTS",
		fmt.Sprintf("fps=%s:round=near", fps),
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", w, h),
		fmt.Sprintf("pad=%d:%d:%s:%s:color=black", w, h, padX, padY),
		"setsar=1",
		fmt.Sprintf("format=%s", rs.PixelFormat),
	}
	return strings.Join(steps, ",") + "[" + outLabel + "]"
}

// centerPadX/centerPadY are ffmpeg's standard "letterbox, don't crop" pad
// offsets: content keeps its scaled size and sits in the middle of the pane.
const centerPadX, centerPadY = "(ow-iw)/2", "(oh-ih)/2"

func singleChain(inputIdx int, rs settings.RenderSettings, outLabel string) string {
	src := fmt.Sprintf("[%d:v]", inputIdx)
	return normalizeChain(src, rs.OutputResolution.Width, rs.OutputResolution.Height, centerPadX, centerPadY, rs, outLabel)
}

// paneAlignment resolves SplitMode+SplitAlignment into the pad filter's x/y
// offset expressions for an overlap pane. side_by_side panes span the full
// output height but only half its width, so alignment governs the vertical
// offset (top/center/bottom) of any letterboxed content; stacked panes span
// the full width but half the height, so alignment governs the horizontal
// offset (left/center/right) instead.
func paneAlignment(mode settings.SplitMode, align settings.SplitAlignment) (padX, padY string) {
	switch mode {
	case settings.Stacked:
		switch align {
		case settings.AlignLeft:
			return "0", centerPadY
		case settings.AlignRight:
			return "ow-iw", centerPadY
		default:
			return centerPadX, centerPadY
		}
	default: // side_by_side
		switch align {
		case settings.AlignTop:
			return centerPadX, "0"
		case settings.AlignBottom:
			return centerPadX, "oh-ih"
		default:
			return centerPadX, centerPadY
		}
	}
}

// overlapChain normalizes both clip panes to half the output frame (split
// horizontally for side_by_side, vertically for stacked) and combines them
// with a two-input stack filter, letterboxing each pane per SplitAlignment.
func overlapChain(idxA, idxB, segmentIndex int, rs settings.RenderSettings, outLabel string) []string {
	w, h := rs.OutputResolution.Width, rs.OutputResolution.Height
	paneLabelA := fmt.Sprintf("ov%da", segmentIndex)
	paneLabelB := fmt.Sprintf("ov%db", segmentIndex)

	var paneW, paneH int
	var stackFilter string
	switch rs.SplitMode {
	case settings.Stacked:
		paneW, paneH = w, h/2
		stackFilter = "vstack=inputs=2"
	default: // side_by_side
		paneW, paneH = w/2, h
		stackFilter = "hstack=inputs=2"
	}

	padX, padY := paneAlignment(rs.SplitMode, rs.SplitAlignment)
	chainA := normalizeChain(fmt.Sprintf("[%d:v]", idxA), paneW, paneH, padX, padY, rs, paneLabelA)
	chainB := normalizeChain(fmt.Sprintf("[%d:v]", idxB), paneW, paneH, padX, padY, rs, paneLabelB)
	combine := fmt.Sprintf("[%s][%s]%s[%s]", paneLabelA, paneLabelB, stackFilter, outLabel)

	return []string{chainA, chainB, combine}
}

// gapChain synthesizes a color slate of slate_duration_us and overlays its
// text, regardless of the underlying gap's real duration.
func gapChain(segmentIndex int, seg timeline.Segment, rs settings.RenderSettings, outLabel string) string {
	w, h := rs.OutputResolution.Width, rs.OutputResolution.Height
	fps := fmt.Sprintf("%d/%d", rs.OutputFPS.Num, rs.OutputFPS.Den)
	durationSeconds := float64(rs.SlateDurationUs) / 1_000_000

	bgLabel := fmt.Sprintf("bg%d", segmentIndex)
	colorSrc := fmt.Sprintf("color=c=black:s=%dx%d:r=%s:d=%.6f[%s]", w, h, fps, durationSeconds, bgLabel)
	text := escapeDrawtext(seg.SlateText)
	overlay := fmt.Sprintf("[%s]drawtext=text='%s':fontcolor=white:fontsize=36:x=(w-text_w)/2:y=(h-text_h)/2[%s]", bgLabel, text, outLabel)
	return colorSrc + ";\n" + overlay
}

// escapeDrawtext escapes the characters ffmpeg's drawtext filter treats
// specially inside a single-quoted text value: backslash, single quote,
// colon, and percent.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}
