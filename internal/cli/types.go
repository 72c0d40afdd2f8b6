package cli

import (
	"github.com/spf13/cobra"
)

func newTypesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered types",
		Long: `List the registered types in registration order with their transform,
content type, accept strings and default quality.

Examples:
  mimectl types
  mimectl types -o json
  mimectl types --config mime.yaml -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.write(cmd.OutOrStdout(), newTypeList(a.reg))
		},
	}
}
