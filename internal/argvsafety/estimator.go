// Package argvsafety estimates the byte length of the concrete external-tool
// command line and decides whether a render must fall back to batch mode.
package argvsafety

import "runtime"

// Platform-specific thresholds, chosen well below each OS's hard argv/environment
// limit to leave headroom for the environment block.
const (
	windowsThresholdBytes     = 29_000
	unixThresholdBytes        = 120_000
	perInputOverheadBytes     = 30
	fixedCommandOverheadBytes = 512
)

// Estimate is the argv-length estimator's result.
type Estimate struct {
	Bytes int
}

// EstimateLength computes an upper bound on the command-line byte length
// given the number of file-input arguments and the total length of their
// paths, plus encoder-flag bytes, inflated by 10% for safety margin.
func EstimateLength(inputPathLengths []int, encoderArgsBytes int) Estimate {
	total := fixedCommandOverheadBytes + encoderArgsBytes
	for _, l := range inputPathLengths {
		total += perInputOverheadBytes + l
	}
	total = total + total/10 // +10% margin
	return Estimate{Bytes: total}
}

// Threshold returns the platform-specific argv-length threshold above which
// batch mode is forced.
func Threshold() int {
	if runtime.GOOS == "windows" {
		return windowsThresholdBytes
	}
	return unixThresholdBytes
}

// Decide applies the batch-vs-single-pass decision rule: forced batch mode,
// else a threshold check against the platform limit, else single-pass.
func Decide(forceBatch bool, est Estimate) (batch bool, warning string) {
	if forceBatch {
		return true, ""
	}
	if est.Bytes > Threshold() {
		return true, "argv length estimate exceeds platform threshold; falling back to batch rendering"
	}
	return false, ""
}
