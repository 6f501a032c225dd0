package wavcmp

import (
	"strings"
	"testing"
	"time"
)

func TestTrack_IntBuffer(t *testing.T) {
	track := mustDecode(t, encodeTrack(pcmTrack(8000, 16, []int32{1, 2, 3}, []int32{-1, -2, -3})))

	buf := track.IntBuffer()

	want := []int{1, -1, 2, -2, 3, -3}
	if len(buf.Data) != len(want) {
		t.Fatalf("len(Data) = %d, want %d", len(buf.Data), len(want))
	}

	for i := range want {
		if buf.Data[i] != want[i] {
			t.Fatalf("Data[%d] = %d, want %d", i, buf.Data[i], want[i])
		}
	}

	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 8000 || buf.SourceBitDepth != 16 {
		t.Fatalf("unexpected buffer format %+v, bit depth %d", buf.Format, buf.SourceBitDepth)
	}

	if buf.NumFrames() != 3 {
		t.Fatalf("NumFrames() = %d, want 3", buf.NumFrames())
	}
}

func TestTrack_Duration(t *testing.T) {
	track := mustDecode(t, encodeTrack(pcmTrack(8000, 8, make([]int32, 4000))))

	if got := track.Duration(); got != 500*time.Millisecond {
		t.Fatalf("Duration() = %v, want 500ms", got)
	}

	if got := track.FrameTime(80); got != 10*time.Millisecond {
		t.Fatalf("FrameTime(80) = %v, want 10ms", got)
	}
}

func TestTrack_String(t *testing.T) {
	track := mustDecode(t, encodeTrack(pcmTrack(8000, 16, []int32{1, 2, 3, 4})))

	got := track.String()
	for _, part := range []string{"format 0x0001", "1 ch", "8000 Hz", "16 bits", "4 frames", "500µs"} {
		if !strings.Contains(got, part) {
			t.Fatalf("String() = %q, missing %q", got, part)
		}
	}
}

func TestTrack_NilAccessors(t *testing.T) {
	var track *Track

	if track.NumChannels() != 0 || track.Duration() != 0 || track.Format() != nil || track.IntBuffer() != nil {
		t.Fatal("expected zero values from a nil track")
	}

	if track.String() != "<nil>" {
		t.Fatalf("String() = %q", track.String())
	}
}
