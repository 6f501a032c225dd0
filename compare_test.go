package wavcmp

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCompare_Self(t *testing.T) {
	track := mustDecode(t, encodeTrack(pcmTrack(44100, 16, rampChannels(16, 2, 256)...)))

	report := Compare(track, track)

	if !report.Compatible || report.Incompatibility != nil {
		t.Fatalf("expected compatible report, got %+v", report)
	}

	if !report.LengthsEqual {
		t.Fatal("expected equal lengths")
	}

	if _, ok := report.FirstDifferenceFrame(); ok {
		t.Fatal("expected no first difference")
	}

	if _, ok := report.LastDifferenceFrame(); ok {
		t.Fatal("expected no last difference")
	}

	if report.DifferingFrames != 0 {
		t.Fatalf("DifferingFrames = %d, want 0", report.DifferingFrames)
	}

	if report.Err() != nil {
		t.Fatalf("unexpected error %v", report.Err())
	}
}

func TestCompare_SingleSampleDiffers(t *testing.T) {
	channels := rampChannels(16, 2, 32)
	a := mustDecode(t, encodeTrack(pcmTrack(8000, 16, channels...)))

	changed := rampChannels(16, 2, 32)
	changed[0][5]++
	b := mustDecode(t, encodeTrack(pcmTrack(8000, 16, changed...)))

	report := Compare(a, b)

	first, ok := report.FirstDifferenceFrame()
	if !ok || first != 5 {
		t.Fatalf("FirstDifferenceFrame = %d, %t, want 5", first, ok)
	}

	last, ok := report.LastDifferenceFrame()
	if !ok || last != 5 {
		t.Fatalf("LastDifferenceFrame = %d, %t, want 5", last, ok)
	}

	if report.DifferingFrames != 1 {
		t.Fatalf("DifferingFrames = %d, want 1", report.DifferingFrames)
	}
}

func TestCompare_MonoScenario(t *testing.T) {
	a := mustDecode(t, encodeTrack(pcmTrack(8000, 16, []int32{10, 20, 30, 40})))
	b := mustDecode(t, encodeTrack(pcmTrack(8000, 16, []int32{10, 20, 35, 40})))

	report := Compare(a, b)

	if report.Differences == nil || report.Differences.First != 2 || report.Differences.Last != 2 {
		t.Fatalf("Differences = %+v, want 2..2", report.Differences)
	}

	start, end, ok := report.DifferenceWindow()
	if !ok || start != 250*time.Microsecond || end != 250*time.Microsecond {
		t.Fatalf("DifferenceWindow = %s, %s, %t", start, end, ok)
	}
}

func TestCompare_DifferencesAcrossChannels(t *testing.T) {
	a := pcmTrack(8000, 16, []int32{0, 0, 0, 0, 0}, []int32{0, 0, 0, 0, 0})
	b := pcmTrack(8000, 16, []int32{0, 1, 0, 0, 0}, []int32{0, 1, 0, 1, 0})

	report := Compare(a, b)

	if report.Differences == nil || report.Differences.First != 1 || report.Differences.Last != 3 {
		t.Fatalf("Differences = %+v, want 1..3", report.Differences)
	}

	if report.DifferingFrames != 2 {
		t.Fatalf("DifferingFrames = %d, want 2", report.DifferingFrames)
	}
}

func TestCompare_Incompatible(t *testing.T) {
	base := func() *Track { return pcmTrack(8000, 16, []int32{1, 2}) }

	testCases := []struct {
		name   string
		mutate func(*Track)
		field  string
	}{
		{"audio format", func(tr *Track) { tr.Fmt.FormatTag = 3 }, "audio format"},
		{"channel count", func(tr *Track) {
			tr.Fmt.NumChannels = 2
			tr.Data.Channels = append(tr.Data.Channels, []int32{9, 9})
		}, "channel count"},
		{"sample rate", func(tr *Track) { tr.Fmt.SampleRate = 16000 }, "sample rate"},
		{"bits per sample", func(tr *Track) { tr.Fmt.BitsPerSample = 8 }, "bits per sample"},
		{"first failing check wins", func(tr *Track) {
			tr.Fmt.SampleRate = 16000
			tr.Fmt.NumChannels = 2
		}, "channel count"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := base()
			tc.mutate(b)

			report := Compare(base(), b)

			if report.Compatible {
				t.Fatal("expected incompatible report")
			}

			if report.Incompatibility == nil || report.Incompatibility.Field != tc.field {
				t.Fatalf("Incompatibility = %+v, want field %q", report.Incompatibility, tc.field)
			}

			reason, ok := report.IncompatibilityReason()
			if !ok || !strings.Contains(reason, tc.field) {
				t.Fatalf("IncompatibilityReason = %q, %t", reason, ok)
			}

			if report.Differences != nil || report.DifferingFrames != 0 || report.LengthsEqual {
				t.Fatalf("expected no scan results, got %+v", report)
			}

			if !errors.Is(report.Err(), ErrIncompatibleTracks) {
				t.Fatalf("Err() = %v, want ErrIncompatibleTracks", report.Err())
			}
		})
	}
}

func TestCompare_DifferentLengths(t *testing.T) {
	a := pcmTrack(8000, 16, []int32{1, 2, 3, 4})
	b := pcmTrack(8000, 16, []int32{1, 2, 3, 4, 5, 6})

	report := Compare(a, b)

	if !report.Compatible {
		t.Fatalf("expected compatible, got %v", report.Err())
	}

	if report.LengthsEqual {
		t.Fatal("expected different lengths")
	}

	if report.Differences != nil {
		t.Fatalf("expected no differences in the shared prefix, got %+v", report.Differences)
	}

	loose := &Comparator{DurationTolerance: time.Millisecond}
	if !loose.Compare(a, b).LengthsEqual {
		t.Fatal("expected lengths within 1ms to be equal")
	}
}

func TestCompare_RaggedChannels(t *testing.T) {
	a := pcmTrack(8000, 16, []int32{1, 2, 3}, []int32{1, 2, 3})
	b := pcmTrack(8000, 16, []int32{1, 2, 3}, []int32{1, 7, 3})

	// hand-built tracks may disagree with their fmt chunk
	a.Data.Channels[1] = a.Data.Channels[1][:1]
	b.Data.Channels = append(b.Data.Channels, []int32{5, 5, 5})

	report := Compare(a, b)

	if report.Differences != nil {
		t.Fatalf("expected differences beyond the shorter channel to be ignored, got %+v", report.Differences)
	}
}

func TestCompare_NilTracks(t *testing.T) {
	report := Compare(nil, pcmTrack(8000, 16, []int32{1}))

	if report.Compatible {
		t.Fatal("expected incompatible report")
	}

	if !errors.Is(report.Err(), ErrIncompatibleTracks) {
		t.Fatalf("Err() = %v", report.Err())
	}
}

func TestReport_NilAccessors(t *testing.T) {
	var report *Report

	if _, ok := report.IncompatibilityReason(); ok {
		t.Fatal("expected no reason")
	}

	if _, ok := report.FirstDifferenceFrame(); ok {
		t.Fatal("expected no first frame")
	}

	if _, _, ok := report.DifferenceWindow(); ok {
		t.Fatal("expected no window")
	}

	if report.Err() != nil {
		t.Fatal("expected nil error")
	}
}

func TestIncompatibility_Reason(t *testing.T) {
	inc := &Incompatibility{Field: "channel count", A: 1, B: 2}

	if got := inc.Reason(); got != "channel count differs: 1 != 2" {
		t.Fatalf("Reason() = %q", got)
	}
}
