package encoder

import (
	"strconv"
	"strings"

	"vidmerge/internal/progress"
)

// ProgressState tracks ffmpeg's -progress key=value blocks across lines.
type ProgressState struct {
	OutTimeMs int64
	SpeedStr  string
	TotalSize int64
}

// UpdateFromLine updates the state from a progress line and returns an update
// when a block terminator (progress=...) is seen. durationSec is the expected
// output duration; zero or less yields Percent -1.
func (ps *ProgressState) UpdateFromLine(line string, jobID string, durationSec float64, message string) (u progress.Update, ok bool) {
	kv := strings.SplitN(line, "=", 2)
	if len(kv) != 2 {
		return progress.Update{}, false
	}

	key := strings.TrimSpace(kv[0])
	val := strings.TrimSpace(kv[1])

	switch key {
	case "out_time_ms", "out_time_us":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.OutTimeMs = v
		}
	case "speed":
		if val != "N/A" {
			ps.SpeedStr = val
		}
	case "total_size":
		if v, err := strconv.ParseInt(val, 10, 64); err == nil {
			ps.TotalSize = v
		}
	case "progress":
		percent := -1.0
		if durationSec > 0 {
			// out_time_ms is in microseconds despite its name
			percent = (float64(ps.OutTimeMs) / (durationSec * 1_000_000)) * 100.0
			if percent > 100 {
				percent = 100
			}
			if percent < 0 {
				percent = 0
			}
		}
		if val == "end" && durationSec > 0 {
			percent = 100
		}

		var speedPtr *string
		if ps.SpeedStr != "" {
			s := ps.SpeedStr
			speedPtr = &s
		}

		var bytesPtr *int64
		if ps.TotalSize > 0 {
			b := ps.TotalSize
			bytesPtr = &b
		}

		return progress.Update{
			JobID:   jobID,
			Stage:   progress.StageProcessing,
			Percent: percent,
			Speed:   speedPtr,
			Bytes:   bytesPtr,
			Message: message,
		}, true
	}

	return progress.Update{}, false
}
