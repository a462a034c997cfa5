package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/macropower/i3-event-handler/pkg/config"
)

func NewSchemaCmd() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the rules file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := config.SchemaJSON()
			if err != nil {
				return fmt.Errorf("generate JSON schema: %w", err)
			}

			if outFile == "" {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), string(data)))

				return nil
			}

			err = os.WriteFile(outFile, data, 0o600)
			if err != nil {
				return fmt.Errorf("write schema file: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write the schema to a file instead of stdout")

	return cmd
}
