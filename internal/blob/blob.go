// Package blob builds the 8-byte firmware version blob.
//
// A blob is a 4-byte version tag followed by a 4-byte build timestamp, both
// in big-endian order. The version tag is the 7-digit short commit hash
// with a single "0" nibble appended; the timestamp is Unix seconds.
//
// Writes are atomic (temp file + rename). Concurrent runs that target the
// same path race: the last rename wins and no reader sees a partial file,
// but callers must serialize invocations if ordering matters. The rename
// replaces a symlinked destination with a regular file instead of writing
// through the link, and the result always has mode 0644.
package blob

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
)

// Layout constants.
const (
	VersionSize   = 4
	TimestampSize = 4
	Size          = VersionSize + TimestampSize

	// ShortHashLength is the accepted length of a short commit hash.
	ShortHashLength = 7
	// HashPad is appended to the short hash to fill 4 bytes.
	HashPad = "0"

	// DefaultOutput is the historical output file name.
	DefaultOutput = "test.bin"
)

// Blob is the decoded form of a version blob.
type Blob struct {
	Version   [VersionSize]byte
	Timestamp [TimestampSize]byte
}

// MarshalBinary returns the 8-byte wire form.
func (b Blob) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, Size)
	out = append(out, b.Version[:]...)
	out = append(out, b.Timestamp[:]...)
	return out, nil
}

// UnmarshalBinary decodes the 8-byte wire form.
func (b *Blob) UnmarshalBinary(data []byte) error {
	if len(data) != Size {
		return fmt.Errorf("%w: blob must be %d bytes, got %d", apperrors.ErrEncoding, Size, len(data))
	}
	copy(b.Version[:], data[:VersionSize])
	copy(b.Timestamp[:], data[VersionSize:])
	return nil
}

// Parse decodes raw blob bytes.
func Parse(data []byte) (Blob, error) {
	var b Blob
	if err := b.UnmarshalBinary(data); err != nil {
		return Blob{}, err
	}
	return b, nil
}

// Hex returns the blob as 16 lowercase hex digits.
func (b Blob) Hex() string {
	data, _ := b.MarshalBinary()
	return hex.EncodeToString(data)
}

// ParseHex decodes a 16-digit hex string, case-insensitively.
func ParseHex(s string) (Blob, error) {
	data, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Blob{}, fmt.Errorf("%w: %v", apperrors.ErrEncoding, err)
	}
	return Parse(data)
}

// VersionHex returns the padded version field as hex.
func (b Blob) VersionHex() string {
	return hex.EncodeToString(b.Version[:])
}

// Hash returns the short commit hash, without the pad nibble.
func (b Blob) Hash() string {
	return b.VersionHex()[:ShortHashLength]
}

// TimestampHex returns the timestamp field as 8 hex digits.
func (b Blob) TimestampHex() string {
	return hex.EncodeToString(b.Timestamp[:])
}

// Unix returns the timestamp field in seconds.
func (b Blob) Unix() uint32 {
	return binary.BigEndian.Uint32(b.Timestamp[:])
}

// Time returns the timestamp field as a UTC time.
func (b Blob) Time() time.Time {
	return time.Unix(int64(b.Unix()), 0).UTC()
}
