// Package inspectcmd provides the inspect command for decoding existing blobs.
package inspectcmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/fwblob/internal/blob"
	"github.com/open-cli-collective/fwblob/internal/cmd/root"
)

// Register registers the inspect command with the root command.
func Register(parent *cobra.Command, opts *root.Options) {
	parent.AddCommand(NewCommand(opts))
}

// entry is the JSON form of a decoded blob.
type entry struct {
	File    string    `json:"file"`
	Hash    string    `json:"hash"`
	Version string    `json:"version"`
	Date    string    `json:"date"`
	Time    time.Time `json:"time"`
	Hex     string    `json:"hex"`
}

// NewCommand creates the inspect command.
func NewCommand(opts *root.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Decode existing version blobs",
		Long: `Decode one or more version blobs and show the commit hash and build time.

Examples:
  fwblob inspect test.bin
  fwblob inspect -f json build/*.bin`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args)
		},
	}
}

func runInspect(opts *root.Options, files []string) error {
	entries := make([]entry, 0, len(files))
	for _, file := range files {
		b, err := blob.ReadFile(file)
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			File:    file,
			Hash:    b.Hash(),
			Version: b.VersionHex(),
			Date:    b.TimestampHex(),
			Time:    b.Time(),
			Hex:     b.Hex(),
		})
	}

	headers := []string{"File", "Hash", "Version", "Date", "Time"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.File,
			e.Hash,
			e.Version,
			e.Date,
			e.Time.Format(time.RFC3339),
		})
	}

	v := opts.View()
	if len(entries) == 1 && opts.Format != "json" {
		e := entries[0]
		if opts.Format == "plain" {
			return v.Plain(rows)
		}
		v.Info("File:    %s", e.File)
		v.Info("Hash:    %s", e.Hash)
		v.Info("Version: %s", e.Version)
		v.Info("Date:    %s (%s)", e.Date, e.Time.Format(time.RFC3339))
		v.Info("Hex:     %s", e.Hex)
		return nil
	}

	if err := v.Render(headers, rows, entries); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return nil
}
