package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
)

type fakeResolver struct {
	hash string
	err  error
}

func (f fakeResolver) ShortHash(context.Context) (string, error) {
	return f.hash, f.err
}

func fixedClock(secs int64) func() time.Time {
	return func() time.Time { return time.Unix(secs, 0) }
}

func TestGenerate_KnownBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	g := &Generator{Resolver: fakeResolver{hash: "abcdef1\n"}, Now: fixedClock(1700000000)}

	res, err := g.Generate(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD, 0xEF, 0x10, 0x65, 0x53, 0xF1, 0x00}, data)

	assert.Equal(t, "abcdef10", res.Hash)
	assert.Equal(t, "6553f100", res.Date)
	assert.Equal(t, path, res.Path)
	assert.Equal(t, int64(1700000000), res.Time.Unix())
}

func TestGenerate_TwoRunsSameFormat(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.bin")
	second := filepath.Join(dir, "b.bin")

	g := &Generator{Resolver: fakeResolver{hash: "1234567"}, Now: fixedClock(1700000000)}
	_, err := g.Generate(context.Background(), first)
	require.NoError(t, err)

	g.Now = fixedClock(1700000042)
	_, err = g.Generate(context.Background(), second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Len(t, a, Size)
	assert.Len(t, b, Size)
	assert.Equal(t, a[:VersionSize], b[:VersionSize])
	assert.NotEqual(t, a[VersionSize:], b[VersionSize:])
}

func TestGenerate_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	require.NoError(t, os.WriteFile(path, []byte("previous content that is long"), 0644))

	g := &Generator{Resolver: fakeResolver{hash: "abcdef1"}, Now: fixedClock(1700000000)}
	_, err := g.Generate(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, Size)
}

func TestGenerate_ResolverFailureLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	prior := []byte("prior")
	require.NoError(t, os.WriteFile(path, prior, 0644))

	resolverErr := apperrors.NewStepError(apperrors.StepResolveHash, apperrors.ErrVCSUnavailable, errors.New("git not found"))
	g := &Generator{Resolver: fakeResolver{err: resolverErr}, Now: fixedClock(1700000000)}

	_, err := g.Generate(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrVCSUnavailable)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, prior, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerate_ResolverFailureCreatesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	g := &Generator{Resolver: fakeResolver{hash: ""}}

	_, err := g.Generate(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMalformedHash)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_NonHexHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	g := &Generator{Resolver: fakeResolver{hash: "abcdefg"}, Now: fixedClock(1700000000)}

	_, err := g.Generate(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)

	step, ok := apperrors.FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.StepEncodeVersion, step)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_UnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.bin")
	g := &Generator{Resolver: fakeResolver{hash: "abcdef1"}, Now: fixedClock(1700000000)}

	_, err := g.Generate(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOutputWrite)
}

func TestGenerate_CustomPathLeavesDefaultUntouched(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, DefaultOutput)
	require.NoError(t, os.WriteFile(defaultPath, []byte("keep"), 0644))

	g := &Generator{Resolver: fakeResolver{hash: "abcdef1"}, Now: fixedClock(1700000000)}
	_, err := g.Generate(context.Background(), filepath.Join(dir, "custom.bin"))
	require.NoError(t, err)

	data, err := os.ReadFile(defaultPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("keep"), data)
}

func TestPadHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "seven chars", input: "abcdef1", want: "abcdef10"},
		{name: "surrounding whitespace", input: "  abcdef1\n", want: "abcdef10"},
		{name: "empty", input: "", wantErr: true},
		{name: "six chars", input: "abcdef", wantErr: true},
		{name: "eight chars", input: "abcdef12", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PadHash(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrMalformedHash)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    [VersionSize]byte
		wantErr bool
	}{
		{name: "valid", input: "abcdef10", want: [4]byte{0xab, 0xcd, 0xef, 0x10}},
		{name: "uppercase", input: "ABCDEF10", want: [4]byte{0xab, 0xcd, 0xef, 0x10}},
		{name: "odd length", input: "abcdef1", wantErr: true},
		{name: "non-hex", input: "abcdefg0", wantErr: true},
		{name: "too short", input: "abcd", wantErr: true},
		{name: "too long", input: "abcdef1234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		secs    int64
		want    string
		wantErr bool
	}{
		{name: "current era", secs: 1700000000, want: "6553f100"},
		{name: "leading zero nibble", secs: 0x0fffffff, want: "0fffffff"},
		{name: "small value", secs: 0x1234, want: "00001234"},
		{name: "epoch", secs: 0, want: "00000000"},
		{name: "max", secs: 0xffffffff, want: "ffffffff"},
		{name: "before epoch", secs: -1, wantErr: true},
		{name: "overflow", secs: 0x100000000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatTimestamp(time.Unix(tt.secs, 0))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 2*TimestampSize)
		})
	}
}

func TestEncodeTimestamp(t *testing.T) {
	got, err := EncodeTimestamp("6553f100")
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0x65, 0x53, 0xf1, 0x00}, got)

	_, err = EncodeTimestamp("553f100")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
	step, _ := apperrors.FailedStep(err)
	assert.Equal(t, apperrors.StepEncodeTimestamp, step)
}

func TestHexRoundTrip(t *testing.T) {
	inputs := []string{
		"abcdef106553f100",
		"ABCDEF106553F100",
		"0000000000000000",
		"FfEeDdCcBbAa9988",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			b, err := ParseHex(in)
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(in), b.Hex())
		})
	}
}

func TestParse(t *testing.T) {
	b, err := Parse([]byte{0xAB, 0xCD, 0xEF, 0x10, 0x65, 0x53, 0xF1, 0x00})
	require.NoError(t, err)

	assert.Equal(t, "abcdef1", b.Hash())
	assert.Equal(t, "abcdef10", b.VersionHex())
	assert.Equal(t, "6553f100", b.TimestampHex())
	assert.Equal(t, uint32(1700000000), b.Unix())
	assert.Equal(t, time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC), b.Time())

	_, err = Parse([]byte{0x01, 0x02})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEncoding)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, WriteFile(path, []byte{0x12, 0x34, 0x56, 0x70, 0x00, 0x00, 0x00, 0x01}))

	b, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1234567", b.Hash())
	assert.Equal(t, uint32(1), b.Unix())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerm), info.Mode().Perm())

	_, err = ReadFile(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}
