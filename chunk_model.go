package wavcmp

// RawChunk stores a chunk the decoder skipped because it is not part of the
// fmt/fact/data sequence. Only collected when Decoder.SkipUnknownChunks is set.
type RawChunk struct {
	ID [4]byte
	// Size mirrors len(Data).
	Size uint32
	Data []byte
	// Order is the index of the chunk in the RIFF body, starting at 0.
	Order int
	// BeforeData indicates if this chunk appeared before the data chunk.
	BeforeData bool
}

// IDString returns the chunk ID as text.
func (c RawChunk) IDString() string {
	return string(c.ID[:])
}
