package wavcmp

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-audio/riff"
)

var (
	// CIDFact is the chunk ID for the fact chunk.
	CIDFact = [4]byte{'f', 'a', 'c', 't'}
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDJunk is the chunk ID for a JUNK padding chunk.
	CIDJunk = [4]byte{'J', 'U', 'N', 'K'}
)

const chunkHeaderLen = 8

// Decoder decodes in-memory WAVE files. A Decoder holds no state between
// calls and may be used from several goroutines.
type Decoder struct {
	// Extensible enables parsing of the WAVE_FORMAT_EXTENSIBLE fields. When
	// false the extension is skipped as opaque bytes and FmtChunk.Extensible
	// stays nil.
	Extensible bool
	// SkipUnknownChunks collects chunks other than fmt/fact/data into
	// Track.ExtraChunks instead of failing on them.
	SkipUnknownChunks bool
}

// NewDecoder returns a decoder with extensible parsing enabled and strict
// chunk ordering.
func NewDecoder() *Decoder {
	return &Decoder{Extensible: true}
}

// Decode decodes buf with the default decoder settings.
func Decode(buf []byte) (*Track, error) {
	return NewDecoder().Decode(buf)
}

// Decode parses buf as one complete WAVE file. buf is not retained: the
// returned track owns copies of everything it exposes.
func (d *Decoder) Decode(buf []byte) (*Track, error) {
	if d == nil {
		d = NewDecoder()
	}

	s := &decodeState{
		dec:   d,
		buf:   buf,
		track: &Track{},
	}

	var state stateFn = readRiffHeader
	for state != nil {
		var err error

		state, err = state(s)
		if err != nil {
			return nil, err
		}
	}

	return s.track, nil
}

// stateFn is one step of the decode. It returns the next step, or nil once
// the input is fully consumed.
type stateFn func(*decodeState) (stateFn, error)

type decodeState struct {
	dec   *Decoder
	buf   []byte
	off   int
	track *Track

	fmtOffset  int
	chunkOrder int
	seenData   bool
}

// chunkSpan is a chunk whose whole body is known to be in the buffer.
type chunkSpan struct {
	*riff.Chunk

	body []byte
	// offset of the chunk body in the input
	offset int
}

func (s *decodeState) remaining() int {
	return len(s.buf) - s.off
}

func (s *decodeState) readID(field string) ([4]byte, error) {
	var id [4]byte

	if s.remaining() < len(id) {
		return id, truncatedError(s.off, field, len(id), s.remaining())
	}

	copy(id[:], s.buf[s.off:])
	s.off += len(id)

	return id, nil
}

func (s *decodeState) readUint32(field string) (uint32, error) {
	if s.remaining() < 4 {
		return 0, truncatedError(s.off, field, 4, s.remaining())
	}

	v := binary.LittleEndian.Uint32(s.buf[s.off:])
	s.off += 4

	return v, nil
}

// readChunk reads the next chunk header and slices its body out of the
// buffer, then moves the cursor past the body and its pad byte.
func (s *decodeState) readChunk() (*chunkSpan, error) {
	id, err := s.readID("chunk id")
	if err != nil {
		return nil, err
	}

	size, err := s.readUint32(fmt.Sprintf("%s chunk size", id[:]))
	if err != nil {
		return nil, err
	}

	if uint64(size) > uint64(s.remaining()) {
		return nil, truncatedError(s.off, fmt.Sprintf("%s chunk", id[:]), int(size), s.remaining())
	}

	span := &chunkSpan{
		body:   s.buf[s.off : s.off+int(size)],
		offset: s.off,
	}
	span.Chunk = &riff.Chunk{
		ID:   id,
		Size: int(size),
		R:    bytes.NewReader(span.body),
	}

	s.off += int(size)
	// all RIFF chunks must be word aligned; the pad byte isn't part of the
	// declared size and may be missing on the last chunk
	if size%2 == 1 && s.remaining() > 0 {
		s.off++
	}

	s.chunkOrder++

	return span, nil
}

// nextChunk returns the next chunk, which must carry want. Unknown chunks in
// between are collected when SkipUnknownChunks is set.
func (s *decodeState) nextChunk(want [4]byte) (*chunkSpan, error) {
	for {
		start := s.off

		span, err := s.readChunk()
		if err != nil {
			return nil, err
		}

		if span.ID == want {
			return span, nil
		}

		if !s.dec.SkipUnknownChunks || isCoreChunk(span.ID) {
			return nil, tagMismatchError(start, want, span.ID)
		}

		s.captureUnknownChunk(span)
	}
}

func (s *decodeState) captureUnknownChunk(span *chunkSpan) {
	s.track.ExtraChunks = append(s.track.ExtraChunks, RawChunk{
		ID:         span.ID,
		Size:       uint32(len(span.body)),
		Data:       append([]byte(nil), span.body...),
		Order:      s.chunkOrder - 1,
		BeforeData: !s.seenData,
	})
}

func isCoreChunk(id [4]byte) bool {
	return id == riff.FmtID || id == CIDFact || id == riff.DataFormatID
}

func readRiffHeader(s *decodeState) (stateFn, error) {
	id, err := s.readID("riff id")
	if err != nil {
		return nil, err
	}

	if id != riff.RiffID {
		return nil, tagMismatchError(0, riff.RiffID, id)
	}

	sizeOffset := s.off

	size, err := s.readUint32("riff size")
	if err != nil {
		return nil, err
	}

	format, err := s.readID("wave id")
	if err != nil {
		return nil, err
	}

	if format != riff.WavFormatID {
		return nil, tagMismatchError(s.off-4, riff.WavFormatID, format)
	}

	available := uint64(len(s.buf)) - chunkHeaderLen
	if uint64(size) != available {
		decErr := newDecodeError(ErrMalformedHeader, sizeOffset, "riff size", available, uint64(size))

		decErr.Err = ErrTrailingData
		if uint64(size) > available {
			decErr.Err = ErrTruncatedInput
		}

		return nil, decErr
	}

	s.track.Riff = RiffHeader{DeclaredSize: size}

	return readFmtChunk, nil
}

func readFmtChunk(s *decodeState) (stateFn, error) {
	span, err := s.nextChunk(riff.FmtID)
	if err != nil {
		return nil, err
	}

	fmtChunk, err := decodeFmtChunk(span.Chunk, span.offset, s.dec.Extensible)
	if err != nil {
		return nil, err
	}

	err = fmtChunk.validate(span.offset)
	if err != nil {
		return nil, err
	}

	s.fmtOffset = span.offset
	s.track.Fmt = *fmtChunk

	if fmtChunk.FormatTag == wavFormatPCM {
		return readDataChunk, nil
	}

	return readFactChunk, nil
}

func readFactChunk(s *decodeState) (stateFn, error) {
	span, err := s.nextChunk(CIDFact)
	if err != nil {
		return nil, err
	}

	fact := &FactChunk{Size: uint32(span.Size)}

	err = span.ReadLE(&fact.SampleFrames)
	if err != nil {
		decErr := newDecodeError(ErrMalformedHeader, span.offset, "fact chunk size", ">= 4", uint64(span.Size))
		decErr.Err = fmt.Errorf("failed to read sample frames: %w", err)

		return nil, decErr
	}

	span.Drain()

	s.track.Fact = fact

	return readDataChunk, nil
}

func readDataChunk(s *decodeState) (stateFn, error) {
	span, err := s.nextChunk(riff.DataFormatID)
	if err != nil {
		return nil, err
	}

	s.seenData = true

	format := &s.track.Fmt

	decodeF, width, err := sampleDecodeFunc(format.BitsPerSample)
	if err != nil {
		decErr := newDecodeError(ErrUnsupportedFormat, s.fmtOffset+fmtOffsetBitDepth, "bits per sample",
			"8, 16 or 32", uint64(format.BitsPerSample))
		decErr.Err = err

		return nil, decErr
	}

	numChans := int(format.NumChannels)

	var frames uint32
	if s.track.Fact != nil {
		frames = s.track.Fact.SampleFrames
	} else {
		frames = uint32(uint64(len(span.body)) / uint64(numChans) / uint64(width))
	}

	need := uint64(frames) * uint64(numChans) * uint64(width)
	if need > uint64(len(span.body)) {
		return nil, newDecodeError(ErrTruncatedInput, span.offset, "data chunk", need, uint64(len(span.body)))
	}

	channels := make([][]int32, numChans)
	for ch := range channels {
		channels[ch] = make([]int32, frames)
	}

	pos := 0
	for i := range int(frames) {
		for ch := range numChans {
			channels[ch][i] = decodeF(span.body[pos:])
			pos += width
		}
	}

	s.track.Data = DataChunk{Size: uint32(span.Size), Channels: channels}
	s.track.SampleFrames = frames

	return checkComplete, nil
}

func checkComplete(s *decodeState) (stateFn, error) {
	for s.dec.SkipUnknownChunks && s.remaining() >= chunkHeaderLen {
		start := s.off

		span, err := s.readChunk()
		if err != nil {
			return nil, err
		}

		if isCoreChunk(span.ID) {
			return nil, newDecodeError(ErrTrailingData, start, "duplicate chunk", nil, string(span.ID[:]))
		}

		s.captureUnknownChunk(span)
	}

	if s.remaining() > 0 {
		return nil, newDecodeError(ErrTrailingData, s.off, "unconsumed bytes", uint64(0), uint64(s.remaining()))
	}

	return nil, nil
}

// sampleDecodeFunc returns a function converting the leading bytes of a
// buffer into a sample, and the number of bytes one sample takes.
// All depths, including 8 bits, are read as signed little-endian values.
func sampleDecodeFunc(bitsPerSample uint16) (func([]byte) int32, int, error) {
	switch bitsPerSample {
	case 8:
		return func(b []byte) int32 {
			return int32(int8(b[0]))
		}, 1, nil
	case 16:
		return func(b []byte) int32 {
			return int32(int16(binary.LittleEndian.Uint16(b)))
		}, 2, nil
	case 32:
		return func(b []byte) int32 {
			return int32(binary.LittleEndian.Uint32(b))
		}, 4, nil
	default:
		return nil, 0, fmt.Errorf("%w: %d", errUnhandledBitDepth, bitsPerSample)
	}
}
