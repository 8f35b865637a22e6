package model

// QualityPreset represents a named compression tier.
type QualityPreset string

const (
	PresetLow    QualityPreset = "low"
	PresetMedium QualityPreset = "medium"
	PresetHigh   QualityPreset = "high"
)

// Tier bundles a constant-rate-factor with an x264 speed preset.
type Tier struct {
	CRF    int
	Preset string
}

// TierFor maps a preset to its fixed CRF/preset pair. Unrecognized presets
// fall back to medium.
func TierFor(q QualityPreset) Tier {
	switch q {
	case PresetLow:
		return Tier{CRF: 28, Preset: "fast"}
	case PresetHigh:
		return Tier{CRF: 18, Preset: "slow"}
	case PresetMedium:
		fallthrough
	default:
		return Tier{CRF: 23, Preset: "medium"}
	}
}

// AudioFormat is the container/codec family produced by audio extraction.
type AudioFormat string

const (
	AudioMP3 AudioFormat = "mp3"
	AudioAAC AudioFormat = "aac"
	AudioWAV AudioFormat = "wav"
)

// Codec returns the ffmpeg audio encoder for the format.
func (f AudioFormat) Codec() string {
	switch f {
	case AudioMP3:
		return "libmp3lame"
	case AudioWAV:
		return "pcm_s16le"
	default:
		return "aac"
	}
}

// Image merge hold bounds, in seconds.
const (
	DefaultImageDuration = 2.0
	MinImageDuration     = 0.5
	MaxImageDuration     = 10.0
	ImageDurationStep    = 0.5
)

// CLIOptions holds user-configurable runtime options resolved from flags,
// environment and the config file.
type CLIOptions struct {
	OutDir        string
	FFmpegPath    string // optional explicit ffmpeg binary
	FFprobePath   string // optional explicit ffprobe binary
	ImageDuration float64
	LogLevel      string
	DryRun        bool
	Verbose       bool
}

// ProbeInfo is the subset of ffprobe output the editor needs.
type ProbeInfo struct {
	DurationSec float64 // 0 if unknown
	Format      string
	Size        int64
	Width       int
	Height      int
}
