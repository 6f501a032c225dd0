package wavcmp

import (
	"fmt"
	"time"
)

// DefaultDurationTolerance is the largest duration difference for which two
// tracks are still reported as having equal lengths.
const DefaultDurationTolerance = time.Microsecond

// Comparator compares decoded tracks.
type Comparator struct {
	// DurationTolerance is the epsilon used for Report.LengthsEqual.
	DurationTolerance time.Duration
}

// NewComparator returns a comparator using DefaultDurationTolerance.
func NewComparator() *Comparator {
	return &Comparator{DurationTolerance: DefaultDurationTolerance}
}

// Compare compares a and b with the default comparator.
func Compare(a, b *Track) *Report {
	return NewComparator().Compare(a, b)
}

// Incompatibility names the first fmt field that differs between two tracks.
type Incompatibility struct {
	Field string
	A, B  uint32
}

// Reason returns a human readable description.
func (i *Incompatibility) Reason() string {
	return fmt.Sprintf("%s differs: %d != %d", i.Field, i.A, i.B)
}

// FrameRange is an inclusive range of frame indices.
type FrameRange struct {
	First uint32
	Last  uint32
}

// Report is the outcome of a comparison.
type Report struct {
	Compatible bool
	// Incompatibility is nil when Compatible is true.
	Incompatibility *Incompatibility
	// LengthsEqual compares durations, not frame counts.
	LengthsEqual bool
	// Differences spans the first and last frame index where any channel
	// differs. nil when no sample differs or the tracks are incompatible.
	Differences *FrameRange
	// DifferingFrames counts frame indices where at least one channel differs.
	DifferingFrames uint32
	// SampleRate is shared by both tracks when Compatible is true.
	SampleRate uint32
}

// IncompatibilityReason returns the reason the tracks could not be compared.
func (r *Report) IncompatibilityReason() (string, bool) {
	if r == nil || r.Incompatibility == nil {
		return "", false
	}

	return r.Incompatibility.Reason(), true
}

// FirstDifferenceFrame returns the lowest differing frame index.
func (r *Report) FirstDifferenceFrame() (uint32, bool) {
	if r == nil || r.Differences == nil {
		return 0, false
	}

	return r.Differences.First, true
}

// LastDifferenceFrame returns the highest differing frame index.
func (r *Report) LastDifferenceFrame() (uint32, bool) {
	if r == nil || r.Differences == nil {
		return 0, false
	}

	return r.Differences.Last, true
}

// DifferenceWindow returns the time offsets of the first and last differing
// frames.
func (r *Report) DifferenceWindow() (start, end time.Duration, ok bool) {
	if r == nil || r.Differences == nil {
		return 0, 0, false
	}

	return framesToDuration(r.Differences.First, r.SampleRate),
		framesToDuration(r.Differences.Last, r.SampleRate), true
}

// Err returns an error wrapping ErrIncompatibleTracks for incompatible
// tracks, nil otherwise.
func (r *Report) Err() error {
	reason, ok := r.IncompatibilityReason()
	if !ok {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrIncompatibleTracks, reason)
}

// Compare checks that a and b share the same layout and scans every sample
// both tracks hold.
func (c *Comparator) Compare(a, b *Track) *Report {
	if c == nil {
		c = NewComparator()
	}

	if a == nil || b == nil {
		return &Report{Incompatibility: &Incompatibility{Field: "track"}}
	}

	if inc := checkCompatible(&a.Fmt, &b.Fmt); inc != nil {
		return &Report{Incompatibility: inc}
	}

	report := &Report{
		Compatible: true,
		SampleRate: a.Fmt.SampleRate,
		LengthsEqual: secondsClose(
			framesToSeconds(a.SampleFrames, a.Fmt.SampleRate),
			framesToSeconds(b.SampleFrames, b.Fmt.SampleRate),
			c.DurationTolerance),
	}

	report.Differences, report.DifferingFrames = scanDifferences(a.Data.Channels, b.Data.Channels)

	return report
}

// checkCompatible returns the first mismatching field, in a fixed order.
func checkCompatible(a, b *FmtChunk) *Incompatibility {
	checks := []struct {
		field string
		a, b  uint32
	}{
		{"audio format", uint32(a.FormatTag), uint32(b.FormatTag)},
		{"channel count", uint32(a.NumChannels), uint32(b.NumChannels)},
		{"sample rate", a.SampleRate, b.SampleRate},
		{"bits per sample", uint32(a.BitsPerSample), uint32(b.BitsPerSample)},
	}

	for _, check := range checks {
		if check.a != check.b {
			return &Incompatibility{Field: check.field, A: check.a, B: check.b}
		}
	}

	return nil
}

// scanDifferences walks frames in order and checks every channel the two
// sides share, each bounded by the shorter of its two sample slices.
func scanDifferences(a, b [][]int32) (*FrameRange, uint32) {
	shared := min(len(a), len(b))
	bounds := make([]int, shared)
	frames := 0

	for ch := range shared {
		bounds[ch] = min(len(a[ch]), len(b[ch]))
		frames = max(frames, bounds[ch])
	}

	var (
		diff  *FrameRange
		count uint32
	)

	for i := range frames {
		if !frameDiffers(a, b, bounds, i) {
			continue
		}

		count++

		if diff == nil {
			diff = &FrameRange{First: uint32(i)}
		}

		diff.Last = uint32(i)
	}

	return diff, count
}

func frameDiffers(a, b [][]int32, bounds []int, frame int) bool {
	for ch, bound := range bounds {
		if frame < bound && a[ch][frame] != b[ch][frame] {
			return true
		}
	}

	return false
}
