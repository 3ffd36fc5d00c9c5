package settings

// EncoderArgs is the fixed, non-user-tunable set of ffmpeg flags for a
// codec, chosen for forensic CCTV content (low light, motion blur). Values
// mirror the teacher's per-codec argument tables (args.go), recalibrated
// for still/slow-motion forensic footage rather than live HLS segments.
type EncoderArgs struct {
	Codec string // ffmpeg -c:v value
	Args  []string
}

// ResolveEncoder returns the fixed argv fragment for codec.
func ResolveEncoder(codec VideoCodec) EncoderArgs {
	switch codec {
	case HEVCNVENC:
		return EncoderArgs{
			Codec: "hevc_nvenc",
			Args: []string{
				"-preset", "p5",
				"-rc", "vbr_hq",
				"-cq", "20",
				"-g", "60",
				"-bf", "2",
				"-spatial_aq", "1",
				"-temporal_aq", "1",
			},
		}
	case H264NVENC:
		return EncoderArgs{
			Codec: "h264_nvenc",
			Args: []string{
				"-preset", "p5",
				"-rc", "vbr_hq",
				"-cq", "20",
				"-g", "60",
				"-bf", "2",
				"-spatial_aq", "1",
				"-temporal_aq", "1",
			},
		}
	case LibX265:
		return EncoderArgs{
			Codec: "libx265",
			Args: []string{
				"-preset", "medium",
				"-crf", "20",
				"-x265-params", "keyint=60:min-keyint=60:bframes=2",
			},
		}
	case LibX264:
		fallthrough
	default:
		return EncoderArgs{
			Codec: "libx264",
			Args: []string{
				"-preset", "medium",
				"-crf", "20",
				"-g", "60",
				"-bf", "2",
			},
		}
	}
}
