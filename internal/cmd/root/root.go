// Package root provides the root command and global options.
package root

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/fwblob/internal/blob"
	"github.com/open-cli-collective/fwblob/internal/config"
	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
	"github.com/open-cli-collective/fwblob/internal/logging"
	"github.com/open-cli-collective/fwblob/internal/vcs"
	"github.com/open-cli-collective/fwblob/internal/version"
	"github.com/open-cli-collective/fwblob/internal/view"
)

// Options contains global options for commands
type Options struct {
	Format  string
	NoColor bool
	Verbose bool
	Repo    string
	Git     string
	LogDir  string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	logger  *slog.Logger
	cleanup func()

	// testResolver is used for testing; if set, Generator() uses it instead of git
	testResolver blob.HashResolver
	// testNow is used for testing; if set, Generator() uses it as the clock
	testNow func() time.Time
}

// View returns a configured View instance
func (o *Options) View() *view.View {
	v := view.NewWithFormat(o.Format, o.NoColor)
	v.SetOutput(o.Stdout)
	v.SetError(o.Stderr)
	return v
}

// Config loads the configuration and applies global flag overrides.
// A missing config file or directory leaves the built-in defaults in place.
func (o *Options) Config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apperrors.NewStepError(apperrors.StepLoadConfig, apperrors.ErrConfig, err)
	}

	if o.Git != "" {
		cfg.Git = o.Git
	}
	if o.LogDir != "" {
		cfg.LogDir = o.LogDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewStepError(apperrors.StepLoadConfig, apperrors.ErrConfig, err)
	}
	return cfg, nil
}

// Logger returns the command logger, creating it on first use.
func (o *Options) Logger(cfg *config.Config) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}

	logDir := o.LogDir
	if cfg != nil && logDir == "" {
		logDir = cfg.LogDir
	}
	o.logger, o.cleanup = logging.Setup(logging.Config{
		LogDir:  logDir,
		Verbose: o.Verbose,
		Stderr:  o.Stderr,
	})
	o.logger.Debug("starting", "version", version.Full())
	return o.logger
}

// Close releases logging resources.
func (o *Options) Close() {
	if o.cleanup != nil {
		o.cleanup()
		o.cleanup = nil
	}
}

// Generator builds a blob generator from config
func (o *Options) Generator(cfg *config.Config) *blob.Generator {
	var resolver blob.HashResolver = &vcs.Git{
		Binary:  cfg.Git,
		Dir:     o.Repo,
		Timeout: cfg.GitTimeout.Duration,
	}
	if o.testResolver != nil {
		resolver = o.testResolver
	}

	return &blob.Generator{
		Resolver: resolver,
		Now:      o.testNow,
		Logger:   o.Logger(cfg),
	}
}

// SetResolver sets a test hash resolver (for testing only)
func (o *Options) SetResolver(r blob.HashResolver) {
	o.testResolver = r
}

// SetClock sets a test clock (for testing only)
func (o *Options) SetClock(now func() time.Time) {
	o.testNow = now
}

// NewCmd creates the root command and returns the options struct
func NewCmd() (*cobra.Command, *Options) {
	opts := &Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	cmd := &cobra.Command{
		Use:   "fwblob",
		Short: "Generate firmware version blobs",
		Long: `fwblob writes an 8-byte firmware version blob.

The blob holds the short git commit hash of HEAD (padded to 4 bytes)
followed by the current Unix time (4 bytes), both big-endian.
Run 'fwblob' with no arguments to write test.bin in the current directory.`,
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := view.ValidateFormat(opts.Format); err != nil {
				return apperrors.Usagef("%v", err)
			}
			return nil
		},
	}

	// Global flags - bound to opts struct
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, plain")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringVarP(&opts.Repo, "repo", "C", "", "Checkout to read the commit hash from (default: current directory)")
	cmd.PersistentFlags().StringVar(&opts.Git, "git", "", "Version-control executable (default: git)")
	cmd.PersistentFlags().StringVar(&opts.LogDir, "log-dir", "", "Write rotated JSON logs to this directory")

	return cmd, opts
}

// RegisterCommands registers subcommands with the root command
func RegisterCommands(root *cobra.Command, opts *Options, registrars ...func(*cobra.Command, *Options)) {
	for _, register := range registrars {
		register(root, opts)
	}
}
