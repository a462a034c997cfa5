package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/macropower/i3-event-handler/internal/cli"
	"github.com/macropower/i3-event-handler/pkg/version"
)

func main() {
	ctx, stop := cli.NotifyContext(context.Background())

	err := fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(version.Full()),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithColorSchemeFunc(cli.ColorSchemeFunc),
	)
	code := cli.ExitCode(ctx, err)

	stop()
	os.Exit(code)
}
