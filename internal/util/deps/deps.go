package deps

import (
	"fmt"
	"os"
	"os/exec"
)

// find resolves a binary from an explicit path, falling back to PATH lookup of name.
func find(customPath, name string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find %s at %q", name, customPath)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("could not find %s in PATH. Please install ffmpeg.", name)
}

// FindFFmpeg returns the path to the ffmpeg binary.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindFFmpeg(customPath string) (string, error) {
	return find(customPath, "ffmpeg")
}

// FindFFprobe returns the path to the ffprobe binary.
func FindFFprobe(customPath string) (string, error) {
	return find(customPath, "ffprobe")
}
