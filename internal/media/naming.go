package media

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Stamp renders t as epoch milliseconds, the suffix every generated name uses.
func Stamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// FormatFactor renders a speed factor with the fewest digits needed ("1.5", "2", "0.25").
func FormatFactor(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// MergedVideoName is merged_video_<ms>.mp4.
func MergedVideoName(t time.Time) string {
	return "merged_video_" + Stamp(t) + ".mp4"
}

// MergedImagesName is merged_images_<ms>.mp4.
func MergedImagesName(t time.Time) string {
	return "merged_images_" + Stamp(t) + ".mp4"
}

// SpeedName is speed_<factor>x_<ms>.mp4.
func SpeedName(factor float64, t time.Time) string {
	return fmt.Sprintf("speed_%sx_%s.mp4", FormatFactor(factor), Stamp(t))
}

// TrimmedName is trimmed_<ms>.mp4.
func TrimmedName(t time.Time) string {
	return "trimmed_" + Stamp(t) + ".mp4"
}

// AudioName is audio_<ms>.<format>.
func AudioName(format string, t time.Time) string {
	return "audio_" + Stamp(t) + "." + strings.ToLower(format)
}

// CompressedName is compressed_<ms>.mp4.
func CompressedName(t time.Time) string {
	return "compressed_" + Stamp(t) + ".mp4"
}

// RotatedName is rotated_<angle>_<ms>.mp4.
func RotatedName(angle int, t time.Time) string {
	return fmt.Sprintf("rotated_%d_%s.mp4", angle, Stamp(t))
}

// OutputPath joins a generated name onto dir.
func OutputPath(dir, name string) string {
	return filepath.Join(filepath.Clean(dir), name)
}
