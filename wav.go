package wavcmp

import (
	"math"
	"time"
)

// framesToDuration converts a frame index or count to time.
// Frames are uint32 so the nanosecond product can't overflow an int64.
func framesToDuration(frames uint32, sampleRate uint32) time.Duration {
	if sampleRate == 0 {
		return 0
	}

	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

func framesToSeconds(frames uint32, sampleRate uint32) float64 {
	if sampleRate == 0 {
		return 0
	}

	return float64(frames) / float64(sampleRate)
}

func secondsClose(a, b float64, tolerance time.Duration) bool {
	return math.Abs(a-b) <= tolerance.Seconds()
}
