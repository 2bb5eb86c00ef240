package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <n>",
		Aliases: []string{"rm"},
		Short:   "Delete trip number n as shown by list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid trip number %q", args[0])
			}

			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			defer a.release(&err)

			dest := ""
			if n >= 1 && n <= ctrl.Len() {
				dest = ctrl.Trips()[n-1].Destination
			}
			if err := ctrl.DeleteTrip(n - 1); err != nil {
				return err
			}
			if err := checkSaved(ctrl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip #%d (%s)\n", n, dest)
			return nil
		},
	}
}
