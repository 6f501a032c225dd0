package wavcmp

import (
	"fmt"

	"github.com/go-audio/riff"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	fmtBaseSize = 16
	// cbSize field.
	fmtExtensionSizeLen = 2
	// wValidBitsPerSample, dwChannelMask and the 16-byte sub-format GUID.
	fmtExtensibleLen = 22
)

// Offsets of the fmt fields relative to the start of the chunk body.
const (
	fmtOffsetChannels   = 2
	fmtOffsetByteRate   = 8
	fmtOffsetBlockAlign = 12
	fmtOffsetBitDepth   = 14
	fmtOffsetExtension  = 16
)

// FmtChunk stores the parsed WAV fmt chunk. It is the only source of the
// channel and bit depth layout used by the later chunks.
type FmtChunk struct {
	ChunkSize uint32
	// FormatTag is the audio format code, 1 for PCM.
	FormatTag   uint16
	NumChannels uint16
	SampleRate  uint32
	// AvgBytesPerSec is the declared byte rate.
	AvgBytesPerSec uint32
	// BlockAlign is the declared size of one frame in bytes.
	BlockAlign    uint16
	BitsPerSample uint16
	// ExtensionSize is 0 when ChunkSize <= 16.
	ExtensionSize uint16
	// Extensible is only set for WAVE_FORMAT_EXTENSIBLE (0xFFFE) chunks.
	Extensible *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	// SubFormatTag holds the first 4 bytes of the sub-format GUID.
	SubFormatTag uint32
}

// IsExtensible reports whether the format code is WAVE_FORMAT_EXTENSIBLE.
func (f *FmtChunk) IsExtensible() bool {
	return f != nil && f.FormatTag == wavFormatExtensible
}

// ExpectedByteRate returns sampleRate * channels * bits / 8.
func (f *FmtChunk) ExpectedByteRate() uint64 {
	return uint64(f.SampleRate) * uint64(f.NumChannels) * uint64(f.BitsPerSample) / 8
}

// ExpectedBlockAlign returns channels * bits / 8.
func (f *FmtChunk) ExpectedBlockAlign() uint64 {
	return uint64(f.NumChannels) * uint64(f.BitsPerSample) / 8
}

// decodeFmtChunk reads the fmt fields from chunk. offset is the position of
// the chunk body in the input and is only used for error reporting.
func decodeFmtChunk(chunk *riff.Chunk, offset int, extensible bool) (*FmtChunk, error) {
	if chunk.Size < fmtBaseSize {
		return nil, newDecodeError(ErrInvalidFormatChunk, offset-4, "fmt chunk size",
			fmt.Sprintf(">= %d", fmtBaseSize), uint64(chunk.Size))
	}

	fmtChunk := &FmtChunk{ChunkSize: uint32(chunk.Size)}

	fields := []struct {
		name string
		dst  any
	}{
		{"audio format", &fmtChunk.FormatTag},
		{"channels", &fmtChunk.NumChannels},
		{"sample rate", &fmtChunk.SampleRate},
		{"byte rate", &fmtChunk.AvgBytesPerSec},
		{"block align", &fmtChunk.BlockAlign},
		{"bits per sample", &fmtChunk.BitsPerSample},
	}

	for _, field := range fields {
		err := chunk.ReadLE(field.dst)
		if err != nil {
			return nil, fmtReadError(offset, field.name, err)
		}
	}

	if chunk.Size > fmtBaseSize {
		if chunk.Size < fmtBaseSize+fmtExtensionSizeLen {
			return nil, newDecodeError(ErrInvalidFormatChunk, offset-4, "fmt chunk size",
				fmt.Sprintf(">= %d", fmtBaseSize+fmtExtensionSizeLen), uint64(chunk.Size))
		}

		err := chunk.ReadLE(&fmtChunk.ExtensionSize)
		if err != nil {
			return nil, fmtReadError(offset, "extension size", err)
		}
	}

	if fmtChunk.IsExtensible() && extensible {
		err := decodeFmtExtensible(chunk, offset, fmtChunk)
		if err != nil {
			return nil, err
		}
	}

	// skips the GUID tail and any extension bytes we don't interpret
	chunk.Drain()

	return fmtChunk, nil
}

func decodeFmtExtensible(chunk *riff.Chunk, offset int, fmtChunk *FmtChunk) error {
	if fmtChunk.ExtensionSize < fmtExtensibleLen {
		return newDecodeError(ErrUnsupportedFormat, offset+fmtOffsetExtension, "extensible extension size",
			fmt.Sprintf(">= %d", fmtExtensibleLen), uint64(fmtChunk.ExtensionSize))
	}

	if chunk.Size < fmtBaseSize+fmtExtensionSizeLen+fmtExtensibleLen {
		return newDecodeError(ErrInvalidFormatChunk, offset-4, "fmt chunk size",
			fmt.Sprintf(">= %d", fmtBaseSize+fmtExtensionSizeLen+fmtExtensibleLen), uint64(chunk.Size))
	}

	ext := &FmtExtensible{}

	err := chunk.ReadLE(&ext.ValidBitsPerSample)
	if err != nil {
		return fmtReadError(offset, "valid bits per sample", err)
	}

	err = chunk.ReadLE(&ext.ChannelMask)
	if err != nil {
		return fmtReadError(offset, "channel mask", err)
	}

	err = chunk.ReadLE(&ext.SubFormatTag)
	if err != nil {
		return fmtReadError(offset, "sub format", err)
	}

	fmtChunk.Extensible = ext

	return nil
}

// validate checks the fmt fields that later chunks rely on. offset is the
// position of the chunk body in the input.
func (f *FmtChunk) validate(offset int) error {
	if f.NumChannels == 0 {
		return newDecodeError(ErrInvalidFormatChunk, offset+fmtOffsetChannels, "channels", ">= 1", uint64(0))
	}

	rateBits := uint64(f.SampleRate) * uint64(f.NumChannels) * uint64(f.BitsPerSample)
	if uint64(f.AvgBytesPerSec)*8 != rateBits {
		return newDecodeError(ErrInvalidFormatChunk, offset+fmtOffsetByteRate, "byte rate",
			f.ExpectedByteRate(), uint64(f.AvgBytesPerSec))
	}

	frameBits := uint64(f.NumChannels) * uint64(f.BitsPerSample)
	if uint64(f.BlockAlign)*8 != frameBits {
		return newDecodeError(ErrInvalidFormatChunk, offset+fmtOffsetBlockAlign, "block align",
			f.ExpectedBlockAlign(), uint64(f.BlockAlign))
	}

	return nil
}

func fmtReadError(offset int, field string, err error) *DecodeError {
	decErr := newDecodeError(ErrInvalidFormatChunk, offset, field, nil, nil)
	decErr.Err = fmt.Errorf("failed to read %s: %w", field, err)

	return decErr
}
