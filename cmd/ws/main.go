package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ws/cmd/ws/commands"
	werrors "git.home.luguber.info/inful/ws/internal/errors"
	"git.home.luguber.info/inful/ws/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("ws"),
		kong.Description("Workspace helper: parallel dependency-ordered builds and commands across packages."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(&commands.Global{Logger: slog.Default(), Context: ctx}, cli)
	stop()

	if err != nil {
		adapter := werrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		os.Exit(adapter.Report(os.Stderr, err))
	}
}
