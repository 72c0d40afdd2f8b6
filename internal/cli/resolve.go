package cli

import (
	"github.com/spf13/cobra"
)

func newResolveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <accept>",
		Short: "Resolve an Accept header to candidate types",
		Long: `Resolve an Accept header against the registry and print the candidate
types, best first. A header that matches nothing resolves to "all".

Examples:
  mimectl resolve 'application/json, text/*;q=0.5'
  mimectl resolve 'image/*' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(cmd.OutOrStdout(), newResolution(a.reg, args[0]))
		},
	}
}
