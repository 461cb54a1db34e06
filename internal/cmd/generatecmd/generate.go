// Package generatecmd provides the generate command, which is also the
// default action of the root command.
package generatecmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/fwblob/internal/blob"
	"github.com/open-cli-collective/fwblob/internal/cmd/root"
	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
	"github.com/open-cli-collective/fwblob/internal/view"
)

// Register adds the generate command and makes it the root default.
//
// A lone root argument that looks like a mistyped subcommand (no extension,
// no directory, close to a command name) is rejected rather than used as
// the output path. Write it as ./name to force a file of that name.
func Register(parent *cobra.Command, opts *root.Options) {
	cmd := NewCommand(opts)
	parent.AddCommand(cmd)

	parent.Use = parent.Use + " [output-file]"
	parent.Args = cobra.MatchAll(cmd.Args, rejectMistypedCommand)
	parent.RunE = cmd.RunE
	parent.Flags().AddFlagSet(cmd.LocalNonPersistentFlags())
}

func rejectMistypedCommand(cmd *cobra.Command, args []string) error {
	if len(args) != 1 || strings.ContainsAny(args[0], `./\`) {
		return nil
	}
	if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
		return apperrors.Usagef("unknown command %q for %q; did you mean %q? (use ./%s to write a file of that name)",
			args[0], cmd.CommandPath(), suggestions[0], args[0])
	}
	return nil
}

// NewCommand creates the generate command.
func NewCommand(opts *root.Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [output-file]",
		Short: "Write a version blob",
		Long: `Write the 8-byte version blob for the current checkout.

The output file defaults to the config 'output' value, then test.bin.
It is replaced atomically; on any failure no file is written.

Examples:
  fwblob
  fwblob generate build/version.bin
  fwblob -C ../firmware generate -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the values without writing the file")

	return cmd
}

func runGenerate(ctx context.Context, opts *root.Options, args []string, dryRun bool) error {
	cfg, err := opts.Config()
	if err != nil {
		return err
	}

	path := cfg.Output
	if len(args) == 1 {
		path = args[0]
	}

	log := opts.Logger(cfg)
	gen := opts.Generator(cfg)

	var res *blob.Result
	if dryRun {
		res, err = gen.Build(ctx)
	} else {
		res, err = gen.Generate(ctx, path)
	}
	if err != nil {
		if step, ok := apperrors.FailedStep(err); ok {
			log.Debug("generation failed", "step", string(step), "error", err)
		}
		return err
	}

	if !dryRun {
		log.Info("wrote version blob", "path", path, "version", res.Hash, "date", res.Date)
	}

	return opts.View().Fields([]view.Field{
		{Label: "Version", Value: res.Hash},
		{Label: "Date", Value: res.Date},
	}, res)
}
