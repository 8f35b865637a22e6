package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"vidmerge/internal/model"
)

// minAtempo is the smallest factor a single atempo instance accepts.
const minAtempo = 0.5

// BuildMergeArgs constructs ffmpeg arguments for a lossless concat-demuxer merge
// of the files listed in listPath.
func BuildMergeArgs(listPath, outputPath string, includeProgress bool) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
	}
	return finish(args, outputPath, includeProgress)
}

// BuildImageMergeArgs constructs a slideshow: each image is looped for perImageSec
// seconds and the resulting streams are joined with the concat filter.
func BuildImageMergeArgs(images []string, perImageSec float64, outputPath string, includeProgress bool) []string {
	args := []string{"-y"}
	d := FormatSeconds(perImageSec)
	var labels strings.Builder
	for i, img := range images {
		args = append(args, "-loop", "1", "-t", d, "-i", img)
		fmt.Fprintf(&labels, "[%d:v]", i)
	}
	graph := fmt.Sprintf("%sconcat=n=%d:v=1:a=0[out]", labels.String(), len(images))
	args = append(args,
		"-filter_complex", graph,
		"-map", "[out]",
		"-pix_fmt", "yuv420p",
	)
	return finish(args, outputPath, includeProgress)
}

// BuildSpeedArgs retimes video with setpts and audio with atempo.
func BuildSpeedArgs(inputPath string, factor float64, outputPath string, includeProgress bool) []string {
	args := []string{
		"-y",
		"-i", inputPath,
		"-filter:v", fmt.Sprintf("setpts=%s*PTS", FormatSeconds(1/factor)),
		"-filter:a", AtempoChain(factor),
	}
	return finish(args, outputPath, includeProgress)
}

// AtempoChain returns an atempo filter for factor. Factors below 0.5 are split
// into several chained instances since one instance cannot go lower.
func AtempoChain(factor float64) string {
	if factor <= 0 {
		return "atempo=1"
	}
	var parts []string
	for factor < minAtempo {
		parts = append(parts, "atempo=0.5")
		factor /= minAtempo
	}
	parts = append(parts, "atempo="+FormatSeconds(factor))
	return strings.Join(parts, ",")
}

// BuildTrimArgs cuts [start, start+duration) with stream copy. The seek is placed
// before the input, so cut points snap to keyframes.
func BuildTrimArgs(inputPath string, start, duration float64, outputPath string, includeProgress bool) []string {
	args := []string{
		"-y",
		"-ss", FormatSeconds(start),
		"-i", inputPath,
		"-t", FormatSeconds(duration),
		"-c", "copy",
	}
	return finish(args, outputPath, includeProgress)
}

// BuildAudioArgs drops the video stream and encodes audio with the format's codec.
func BuildAudioArgs(inputPath string, format model.AudioFormat, outputPath string, includeProgress bool) []string {
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-c:a", format.Codec(),
	}
	return finish(args, outputPath, includeProgress)
}

// BuildCompressArgs re-encodes with libx264 at the quality tier's CRF and preset.
// Returns the arguments and the tier that was applied.
func BuildCompressArgs(inputPath string, quality model.QualityPreset, outputPath string, includeProgress bool) ([]string, model.Tier) {
	tier := model.TierFor(quality)
	args := []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(tier.CRF),
		"-preset", tier.Preset,
		"-c:a", "aac",
		"-movflags", "+faststart",
	}
	return finish(args, outputPath, includeProgress), tier
}

// RotateFilter maps a clockwise angle to a transpose filter chain.
func RotateFilter(angle int) (string, bool) {
	switch angle {
	case 90:
		return "transpose=1", true
	case 180:
		return "transpose=2,transpose=2", true
	case 270:
		return "transpose=2", true
	}
	return "", false
}

// BuildRotateArgs rotates video and copies audio untouched.
func BuildRotateArgs(inputPath string, angle int, outputPath string, includeProgress bool) ([]string, error) {
	vf, ok := RotateFilter(angle)
	if !ok {
		return nil, fmt.Errorf("unsupported rotation %d", angle)
	}
	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", vf,
		"-c:a", "copy",
	}
	return finish(args, outputPath, includeProgress), nil
}

// FormatSeconds renders a float with the fewest digits that round-trip.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func finish(args []string, outputPath string, includeProgress bool) []string {
	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, outputPath)
}
