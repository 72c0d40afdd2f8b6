package cli

import (
	"github.com/spf13/cobra"
)

func newTransformCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transform <key>",
		Short: "Print the transform of a registered type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transform, err := a.reg.TransformFor(args[0])
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), transformView{Key: args[0], Transform: transform})
		},
	}
}
