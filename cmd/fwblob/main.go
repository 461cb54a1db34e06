// Package main is the entry point for the fwblob CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/open-cli-collective/fwblob/internal/cmd/completion"
	"github.com/open-cli-collective/fwblob/internal/cmd/configcmd"
	"github.com/open-cli-collective/fwblob/internal/cmd/generatecmd"
	"github.com/open-cli-collective/fwblob/internal/cmd/initcmd"
	"github.com/open-cli-collective/fwblob/internal/cmd/inspectcmd"
	"github.com/open-cli-collective/fwblob/internal/cmd/root"
	apperrors "github.com/open-cli-collective/fwblob/internal/errors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fwblob: %v\n", err)
		os.Exit(apperrors.ExitCode(err))
	}
	os.Exit(apperrors.ExitOK)
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, opts := root.NewCmd()
	defer opts.Close()

	root.RegisterCommands(rootCmd, opts,
		generatecmd.Register,
		inspectcmd.Register,
		initcmd.Register,
		configcmd.Register,
		completion.Register,
	)

	return rootCmd.ExecuteContext(ctx)
}
