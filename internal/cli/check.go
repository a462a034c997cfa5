package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/i3-event-handler/pkg/config"
)

func NewCheckCmd(ra *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the rules file and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := ra.Path()

			v, err := config.NewSchemaValidator()
			if err != nil {
				return err
			}

			cl, err := config.NewLoaderFromFile(path, config.WithValidator(v))
			if err != nil {
				return fmt.Errorf("%w: %w", config.ErrConfig, err)
			}

			err = cl.Validate()
			if err != nil {
				return fmt.Errorf("%w: invalid rules %q: %w", config.ErrConfig, path, err)
			}

			rs, err := cl.Load()
			if err != nil {
				return fmt.Errorf("%w: invalid rules %q: %w", config.ErrConfig, path, err)
			}

			mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules OK\n", path, rs.Len()))

			return nil
		},
	}
}
