package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// socketEnv lists the variables i3 and sway export with their IPC socket
// path, in the order they are read.
var socketEnv = []string{"I3SOCK", "SWAYSOCK"}

// bindEnvVars sets each flag of cmd that was not given on the command line
// from the environment. A flag named "log-format" is read from
// I3_EVENT_HANDLER_LOG_FORMAT. The --socket flag falls back to the window
// manager's own variables, see [socketEnv].
//
// Usage strings are updated to name the variable.
func bindEnvVars(cmd *cobra.Command) {
	bind := func(flag *pflag.Flag) {
		names := envNames(flag.Name)
		if !strings.Contains(flag.Usage, "$"+names[0]) {
			flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, strings.Join(names, ", $"))
		}

		if flag.Changed {
			return
		}

		for _, name := range names {
			value, ok := os.LookupEnv(name)
			if !ok || value == "" {
				continue
			}

			err := flag.Value.Set(value)
			if err != nil {
				slog.Error("ignoring invalid environment variable",
					slog.String("flag", flag.Name),
					slog.String("env", name),
					slog.String("value", value),
					slog.Any("error", err),
				)

				continue
			}

			return
		}
	}

	cmd.Flags().VisitAll(bind)
	cmd.PersistentFlags().VisitAll(bind)
}

// envNames returns the variables read for a flag, in order of precedence.
func envNames(flagName string) []string {
	names := []string{flagToEnvName(flagName)}
	if flagName == "socket" {
		names = append(names, socketEnv...)
	}

	return names
}

// flagToEnvName converts a flag name to its environment variable name.
// Example: "log-format" -> "I3_EVENT_HANDLER_LOG_FORMAT".
func flagToEnvName(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
