package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-trip-planner/internal/render"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List planned trips",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			defer a.release(&err)

			render.List(cmd.OutOrStdout(), ctrl.Trips())
			return nil
		},
	}
}
