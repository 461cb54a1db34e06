package blob

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
)

// PadHash validates a short commit hash and appends the pad nibble.
func PadHash(hash string) (string, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return "", apperrors.NewStepError(apperrors.StepResolveHash, apperrors.ErrMalformedHash,
			errors.New("empty output"))
	}
	if len(hash) != ShortHashLength {
		return "", apperrors.NewStepError(apperrors.StepResolveHash, apperrors.ErrMalformedHash,
			fmt.Errorf("expected %d characters, got %d (%q)", ShortHashLength, len(hash), hash))
	}
	return hash + HashPad, nil
}

// EncodeVersion decodes the padded hash into the version field.
func EncodeVersion(padded string) ([VersionSize]byte, error) {
	var out [VersionSize]byte
	if err := decodeField(padded, out[:]); err != nil {
		return out, apperrors.NewStepError(apperrors.StepEncodeVersion, apperrors.ErrEncoding, err)
	}
	return out, nil
}

// FormatTimestamp renders t as 8 lowercase hex digits of Unix seconds.
func FormatTimestamp(t time.Time) (string, error) {
	secs := t.Unix()
	if secs < 0 || secs > math.MaxUint32 {
		return "", apperrors.NewStepError(apperrors.StepResolveTimestamp, apperrors.ErrEncoding,
			fmt.Errorf("unix time %d does not fit in %d bytes", secs, TimestampSize))
	}
	return fmt.Sprintf("%08x", secs), nil
}

// EncodeTimestamp decodes a hex timestamp into the timestamp field.
func EncodeTimestamp(hexTS string) ([TimestampSize]byte, error) {
	var out [TimestampSize]byte
	if err := decodeField(hexTS, out[:]); err != nil {
		return out, apperrors.NewStepError(apperrors.StepEncodeTimestamp, apperrors.ErrEncoding, err)
	}
	return out, nil
}

// decodeField decodes s into dst, which must be filled exactly.
func decodeField(s string, dst []byte) error {
	data, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%q: %w", s, err)
	}
	if len(data) != len(dst) {
		return fmt.Errorf("%q: decoded to %d bytes, want %d", s, len(data), len(dst))
	}
	copy(dst, data)
	return nil
}
