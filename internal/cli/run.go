package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/i3-event-handler/pkg/config"
	"github.com/macropower/i3-event-handler/pkg/dispatch"
	"github.com/macropower/i3-event-handler/pkg/rule"
	"github.com/macropower/i3-event-handler/pkg/telemetry"
	"github.com/macropower/i3-event-handler/pkg/version"
)

const (
	cmdExamples = `  # Apply the rules in $XDG_CONFIG_HOME/i3/event_handler.json:
  i3-event-handler

  # Use another rules file, and reload it when it changes:
  i3-event-handler -c ~/dotfiles/i3/rules.json --watch

  # Connect to sway:
  i3-event-handler --socket "$SWAYSOCK"

  # Check a rules file without connecting:
  i3-event-handler check -c rules.json`
)

type RunArgs struct {
	*RootArgs

	connect      Connector
	Socket       string
	OTLPEndpoint string
	Watch        bool
}

func NewRunArgs(rootArgs *RootArgs, connect Connector) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
		connect:  connect,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Reload the rules file when it changes")
	cmd.Flags().StringVar(&ra.Socket, "socket", "", "Path to the IPC socket, e.g. $SWAYSOCK")
	cmd.Flags().StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP/gRPC endpoint (host:port)")

	err := cmd.MarkFlagFilename("socket")
	if err != nil {
		panic(fmt.Errorf("mark socket flag: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Default command, handle window events until interrupted",
		Example: cmdExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(ctx context.Context, ra *RunArgs) error {
	path := ra.Path()

	// Configuration errors are reported before connecting.
	rs, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, ra.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	defer func() {
		err := shutdown(context.WithoutCancel(ctx))
		if err != nil {
			slog.Error("shutdown telemetry", slog.Any("error", err))
		}
	}()

	client, err := ra.connect(ctx, ra.Socket)
	if err != nil {
		return err
	}

	defer func() {
		err := client.Close()
		if err != nil {
			slog.Debug("close connection", slog.Any("error", err))
		}
	}()

	var reloads <-chan *rule.RuleSet

	if ra.Watch {
		w, err := config.NewWatcher(path)
		if err != nil {
			return fmt.Errorf("watch %q: %w", path, err)
		}

		defer func() {
			err := w.Close()
			if err != nil {
				slog.Debug("close watcher", slog.Any("error", err))
			}
		}()

		go w.Run(ctx)

		reloads = w.Rules()
	}

	slog.Info("starting", version.LogAttr(), slog.String("config", path), slog.Bool("watch", ra.Watch))

	return dispatch.New(rs, client).Run(ctx, reloads)
}
