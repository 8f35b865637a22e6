// Package media classifies input files and names generated outputs.
package media

import (
	"path/filepath"
	"strings"
)

// Kind is the media class of a file, decided by its extension.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindVideo   Kind = "video"
	KindImage   Kind = "image"
)

var (
	videoExts = []string{"mp4", "avi", "mov", "mkv", "wmv"}
	imageExts = []string{"jpg", "jpeg", "png", "gif", "bmp"}
)

// VideoExtensions returns the accepted video extensions (without dot).
func VideoExtensions() []string {
	return append([]string(nil), videoExts...)
}

// ImageExtensions returns the accepted image extensions (without dot).
func ImageExtensions() []string {
	return append([]string(nil), imageExts...)
}

// Classify returns the Kind of a filename. Matching is case-insensitive.
func Classify(name string) Kind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return KindUnknown
	}
	for _, e := range videoExts {
		if e == ext {
			return KindVideo
		}
	}
	for _, e := range imageExts {
		if e == ext {
			return KindImage
		}
	}
	return KindUnknown
}

// IsVideo reports whether name has a video extension.
func IsVideo(name string) bool { return Classify(name) == KindVideo }

// IsImage reports whether name has an image extension.
func IsImage(name string) bool { return Classify(name) == KindImage }

// IsSupported reports whether name is either a video or an image.
func IsSupported(name string) bool { return Classify(name) != KindUnknown }
