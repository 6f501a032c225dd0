package wavcmp

import (
	"fmt"
	"time"

	"github.com/go-audio/audio"
)

// RiffHeader is the outer RIFF chunk header.
type RiffHeader struct {
	// DeclaredSize always equals the input length minus 8 on a decoded track.
	DeclaredSize uint32
}

// FactChunk is present for non-PCM format codes.
type FactChunk struct {
	Size         uint32
	SampleFrames uint32
}

// DataChunk holds the decoded samples, one slice per channel in channel
// order. Every slice holds Track.SampleFrames samples.
type DataChunk struct {
	Size     uint32
	Channels [][]int32
}

// Track is one decoded WAVE file.
type Track struct {
	Riff RiffHeader
	Fmt  FmtChunk
	// Fact is nil for PCM files.
	Fact *FactChunk
	Data DataChunk
	// SampleFrames is the fact chunk frame count when a fact chunk is
	// present, the count derived from the data chunk size otherwise.
	SampleFrames uint32
	// ExtraChunks holds skipped chunks, in file order.
	ExtraChunks []RawChunk
}

// NumChannels returns the channel count declared by the fmt chunk.
func (t *Track) NumChannels() int {
	if t == nil {
		return 0
	}

	return int(t.Fmt.NumChannels)
}

// Duration returns SampleFrames / SampleRate.
func (t *Track) Duration() time.Duration {
	if t == nil {
		return 0
	}

	return framesToDuration(t.SampleFrames, t.Fmt.SampleRate)
}

// FrameTime returns the time offset of the frame at index frame.
func (t *Track) FrameTime(frame uint32) time.Duration {
	if t == nil {
		return 0
	}

	return framesToDuration(frame, t.Fmt.SampleRate)
}

// Format returns the audio format of the decoded content.
func (t *Track) Format() *audio.Format {
	if t == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: int(t.Fmt.NumChannels),
		SampleRate:  int(t.Fmt.SampleRate),
	}
}

// IntBuffer returns the samples interleaved in a go-audio buffer, ready to be
// handed to go-audio encoders.
func (t *Track) IntBuffer() *audio.IntBuffer {
	if t == nil {
		return nil
	}

	numChans := len(t.Data.Channels)
	frames := int(t.SampleFrames)

	buf := &audio.IntBuffer{
		Format:         t.Format(),
		Data:           make([]int, frames*numChans),
		SourceBitDepth: int(t.Fmt.BitsPerSample),
	}

	for ch, samples := range t.Data.Channels {
		for i, v := range samples {
			buf.Data[i*numChans+ch] = int(v)
		}
	}

	return buf
}

// String implements the Stringer interface.
func (t *Track) String() string {
	if t == nil {
		return "<nil>"
	}

	return fmt.Sprintf("format 0x%04X, %d ch, %d Hz, %d bits, %d frames (%s)",
		t.Fmt.FormatTag, t.Fmt.NumChannels, t.Fmt.SampleRate, t.Fmt.BitsPerSample,
		t.SampleFrames, t.Duration())
}
