// Package wavcmp decodes RIFF/WAVE files held in memory and compares two
// decoded tracks sample by sample.
//
// Decoding is strict: the RIFF header, the fmt chunk, the fact chunk (for
// non-PCM format codes) and the data chunk must appear in that order, and
// derived fmt fields (byte rate, block align) must match the declared ones.
// Signed 8, 16 and 32-bit integer samples are supported and are widened to
// int32, one slice per channel.
//
// Failures are returned as *DecodeError values which match one or more of
// the package sentinels through errors.Is:
//
//   - ErrMalformedHeader
//   - ErrInvalidFormatChunk
//   - ErrUnsupportedFormat
//   - ErrTruncatedInput
//   - ErrTrailingData
//
// Compare never fails. Tracks that cannot be compared are reported with
// Report.Compatible set to false and an Incompatibility describing the
// first mismatching fmt field.
//
// Known limitation: for WAVE_FORMAT_EXTENSIBLE files only the leading four
// bytes of the sub-format GUID are kept (FmtExtensible.SubFormatTag). The
// remaining twelve bytes are skipped.
package wavcmp
