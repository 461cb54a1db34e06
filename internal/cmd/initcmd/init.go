// Package initcmd provides the init command for writing the config file.
package initcmd

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/fwblob/internal/cmd/root"
	"github.com/open-cli-collective/fwblob/internal/config"
)

type initOptions struct {
	output     string
	git        string
	gitTimeout time.Duration
	logDir     string
	noPrompt   bool
}

// Register registers the init command with the parent command.
func Register(parent *cobra.Command, opts *root.Options) {
	parent.AddCommand(NewCommand(opts))
}

// NewCommand returns the init command.
func NewCommand(opts *root.Options) *cobra.Command {
	iopts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the fwblob configuration file",
		Long: `Guided setup for the fwblob configuration file.

Values are pre-filled from flags, then the existing config file, then the
built-in defaults. The global --git and --log-dir flags pre-fill the
matching fields. Use --no-prompt to write them without the form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			iopts.git = opts.Git
			iopts.logDir = opts.LogDir
			return runInit(opts, iopts)
		},
	}

	cmd.Flags().StringVar(&iopts.output, "output", "", "Default blob path (default: test.bin)")
	cmd.Flags().DurationVar(&iopts.gitTimeout, "git-timeout", 0, "Timeout for the commit hash lookup (default: 10s)")
	cmd.Flags().BoolVar(&iopts.noPrompt, "no-prompt", false, "Write the config without the interactive form")

	return cmd
}

func runInit(opts *root.Options, iopts *initOptions) error {
	v := opts.View()

	existing, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := prefill(existing, iopts)

	if !iopts.noPrompt {
		timeout := cfg.GitTimeout.String()
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Output file").
					Description("Blob path used when none is given on the command line").
					Placeholder(config.DefaultOutput).
					Value(&cfg.Output),

				huh.NewInput().
					Title("Git executable").
					Value(&cfg.Git).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("git executable is required")
						}
						return nil
					}),

				huh.NewInput().
					Title("Git timeout").
					Description("Go duration, e.g. 10s").
					Value(&timeout).
					Validate(func(s string) error {
						_, err := time.ParseDuration(s)
						return err
					}),

				huh.NewInput().
					Title("Log directory").
					Description("Leave empty to disable file logging").
					Value(&cfg.LogDir),
			),
		)

		if err := form.Run(); err != nil {
			return err
		}

		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid git timeout: %w", err)
		}
		cfg.GitTimeout = config.Duration{Duration: d}
		if cfg.Output == "" {
			cfg.Output = config.DefaultOutput
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if _, err := exec.LookPath(cfg.Git); err != nil {
		v.Warning("%s not found on PATH; generation will fail until it is installed", cfg.Git)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	path, _ := config.GetConfigPath()
	v.Success("Configuration saved to %s", config.ShortenPath(path))
	return nil
}

// prefill resolves initial values. Priority: flag > existing config > default.
func prefill(existing *config.Config, iopts *initOptions) *config.Config {
	cfg := config.Default()

	pick := func(flag, file, def string) string {
		if flag != "" {
			return flag
		}
		if file != "" {
			return file
		}
		return def
	}

	cfg.Output = pick(iopts.output, existing.Output, cfg.Output)
	cfg.Git = pick(iopts.git, existing.Git, cfg.Git)
	cfg.LogDir = pick(iopts.logDir, existing.LogDir, "")

	switch {
	case iopts.gitTimeout != 0:
		cfg.GitTimeout = config.Duration{Duration: iopts.gitTimeout}
	case existing.GitTimeout.Duration != 0:
		cfg.GitTimeout = existing.GitTimeout
	}

	return cfg
}
