package format

import (
	"fmt"
	"math"
)

// Timecode renders seconds as m:ss.cc, e.g. 83.456 -> "1:23.46".
func Timecode(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	cs := int64(math.Round(sec * 100))
	m := cs / 6000
	s := (cs % 6000) / 100
	return fmt.Sprintf("%d:%02d.%02d", m, s, cs%100)
}

// Seconds renders a duration in seconds with one decimal, e.g. "12.5s".
func Seconds(sec float64) string {
	return fmt.Sprintf("%.1fs", sec)
}
