// Package configcmd provides the config command and subcommands.
package configcmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/fwblob/internal/cmd/root"
	"github.com/open-cli-collective/fwblob/internal/config"
)

// Register registers the config command with the parent command.
func Register(parent *cobra.Command, opts *root.Options) {
	parent.AddCommand(NewCommand(opts))
}

// NewCommand returns the config command with subcommands.
func NewCommand(opts *root.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View, locate, and remove the fwblob configuration file.",
	}

	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newPathCommand(opts))
	cmd.AddCommand(newClearCommand(opts))

	return cmd
}

func newShowCommand(opts *root.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  "Display the effective configuration after applying the config file, environment, and flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts)
		},
	}
}

func newPathCommand(opts *root.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}
			opts.View().Info("%s", path)
			return nil
		},
	}
}

func newClearCommand(opts *root.Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the configuration file",
		Long:  "Remove the configuration file. Built-in defaults apply afterwards.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}

func runShow(opts *root.Options) error {
	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	configPath, err := config.GetConfigPath()
	if err != nil {
		configPath = "(unable to determine)"
	}
	source := "defaults"
	if config.Exists() {
		source = config.ShortenPath(configPath)
	}

	v := opts.View()
	if opts.Format == "json" {
		return v.JSON(map[string]string{
			"output":      cfg.Output,
			"git":         cfg.Git,
			"git_timeout": cfg.GitTimeout.String(),
			"log_dir":     cfg.LogDir,
			"config_file": configPath,
			"source":      source,
		})
	}

	logDir := cfg.LogDir
	if logDir == "" {
		logDir = "(disabled)"
	}

	v.Info("fwblob Configuration")
	v.Info("====================")
	v.Info("")
	v.Info("Output:       %s", cfg.Output)
	v.Info("Git:          %s", cfg.Git)
	v.Info("Git timeout:  %s", cfg.GitTimeout)
	v.Info("Log dir:      %s", logDir)
	v.Info("")
	v.Info("Config file:  %s", configPath)
	v.Info("Source:       %s", source)

	return nil
}

func runClear(opts *root.Options, force bool) error {
	v := opts.View()

	if !config.Exists() {
		v.Info("Nothing to clear.")
		return nil
	}

	if !force {
		var confirm bool
		err := huh.NewConfirm().
			Title("Remove the fwblob configuration file?").
			Value(&confirm).
			Run()
		if err != nil {
			return err
		}
		if !confirm {
			v.Info("Cancelled.")
			return nil
		}
	}

	if err := config.Clear(); err != nil {
		return fmt.Errorf("failed to clear config: %w", err)
	}
	v.Success("Configuration cleared.")
	return nil
}
