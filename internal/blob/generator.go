package blob

import (
	"context"
	"log/slog"
	"time"
)

// HashResolver returns the short commit hash of the current checkout.
type HashResolver interface {
	ShortHash(ctx context.Context) (string, error)
}

// Result describes a generated blob.
type Result struct {
	// Hash is the padded version string, e.g. "abcdef10".
	Hash string `json:"version"`
	// Date is the timestamp as 8 hex digits.
	Date string    `json:"date"`
	Time time.Time `json:"time"`
	Path string    `json:"path"`
	Blob Blob      `json:"-"`
}

// Generator produces version blobs.
type Generator struct {
	Resolver HashResolver
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Build resolves and encodes both fields without touching the filesystem.
func (g *Generator) Build(ctx context.Context) (*Result, error) {
	log := g.logger()

	raw, err := g.Resolver.ShortHash(ctx)
	if err != nil {
		return nil, err
	}
	padded, err := PadHash(raw)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved commit hash", "hash", padded)

	version, err := EncodeVersion(padded)
	if err != nil {
		return nil, err
	}

	now := g.now()
	date, err := FormatTimestamp(now)
	if err != nil {
		return nil, err
	}
	log.Debug("resolved timestamp", "unix", now.Unix(), "hex", date)

	ts, err := EncodeTimestamp(date)
	if err != nil {
		return nil, err
	}

	return &Result{
		Hash: padded,
		Date: date,
		Time: time.Unix(now.Unix(), 0).UTC(),
		Blob: Blob{Version: version, Timestamp: ts},
	}, nil
}

// Generate builds a blob and writes it to path.
func (g *Generator) Generate(ctx context.Context, path string) (*Result, error) {
	res, err := g.Build(ctx)
	if err != nil {
		return nil, err
	}

	data, _ := res.Blob.MarshalBinary()
	if err := WriteFile(path, data); err != nil {
		return nil, err
	}
	res.Path = path

	g.logger().Debug("wrote version blob", "path", path, "bytes", len(data))
	return res, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.DiscardHandler)
}
