package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-trip-planner/internal/render"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trips to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctrl, err := a.controller(cmd)
			if err != nil {
				return err
			}
			defer a.release(&err)

			return render.Export(cmd.OutOrStdout(), ctrl.Trips(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", render.FormatJSON, "Output format: json, csv, md")
	return cmd
}
