package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/i3-event-handler/pkg/config"
	"github.com/macropower/i3-event-handler/pkg/log"
	"github.com/macropower/i3-event-handler/pkg/wm"
)

const (
	cmdName = "i3-event-handler"
	cmdDesc = `Label and configure new i3 or sway windows using rules.`

	envPrefix = "I3_EVENT_HANDLER"
)

// Connector connects to the window manager.
type Connector func(ctx context.Context, socket string) (wm.Client, error)

// Option configures the commands created by [NewRootCmd].
type Option func(*options)

type options struct {
	connect Connector
}

// WithConnector replaces the i3 IPC connection, e.g. with an in-memory
// client.
func WithConnector(c Connector) Option {
	return func(o *options) {
		o.connect = c
	}
}

func connectI3(ctx context.Context, socket string) (wm.Client, error) {
	var opts []wm.I3Opt
	if socket != "" {
		opts = append(opts, wm.WithSocketPath(socket))
	}

	return wm.NewI3Client(ctx, opts...)
}

type RootArgs struct {
	ConfigPath string
	LogFormat  string
	Verbose    int
	Quiet      bool
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(&ra.ConfigPath, "config-file", "c", "", "Path to the rules file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().
		BoolVarP(&ra.Quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().
		CountVarP(&ra.Verbose, "verbose", "v", "Log debug messages")
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "auto", fmt.Sprintf("Log format, one of: %s", log.AllFormats))

	err := cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config-file", "json", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config-file flag: %w", err))
	}
}

// Path returns the rules file path.
func (ra *RootArgs) Path() string {
	if ra.ConfigPath != "" {
		return ra.ConfigPath
	}

	return config.DefaultPath()
}

func NewRootCmd(opts ...Option) *cobra.Command {
	o := &options{connect: connectI3}
	for _, opt := range opts {
		opt(o)
	}

	args := NewRootArgs()
	runArgs := NewRunArgs(args, o.connect)

	runCmd := NewRunCmd(runArgs)
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              runCmd.Args,
		RunE:              runCmd.RunE,
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	runArgs.AddFlags(cmd)
	cmd.AddCommand(runCmd, NewCheckCmd(args), NewSchemaCmd())

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		level := log.LevelFromVerbosity(ra.Quiet, ra.Verbose)

		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), string(level), ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
