package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
)

type editOptions struct {
	start       string
	end         string
	destination string
	add         map[string]*[]string
	remove      map[string]*[]string
	interactive bool
}

func newEditCmd(a *app) *cobra.Command {
	o := &editOptions{
		add:    map[string]*[]string{},
		remove: map[string]*[]string{},
	}
	cmd := &cobra.Command{
		Use:   "edit <n>",
		Short: "Edit trip number n as shown by list",
		Long: `Edit a trip. Only the flags given are changed. --remove-* drops every
entry equal to the value, so duplicates go away together.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, a, o, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.start, "start", "", "New start date (YYYY-MM-DD)")
	f.StringVar(&o.end, "end", "", "New end date (YYYY-MM-DD)")
	f.StringVar(&o.destination, "destination", "", "New destination")
	for _, name := range []struct{ list, flag string }{
		{model.ListActivities, "activity"},
		{model.ListExpenses, "expense"},
		{model.ListCompanions, "companion"},
	} {
		o.add[name.list] = f.StringArray("add-"+name.flag, nil, "Append a "+name.flag+" (repeatable)")
		o.remove[name.list] = f.StringArray("remove-"+name.flag, nil, "Remove every matching "+name.flag+" (repeatable)")
	}
	f.BoolVarP(&o.interactive, "interactive", "i", false, "Prompt for list items to add")
	return cmd
}

func runEdit(cmd *cobra.Command, a *app, o *editOptions, arg string) (err error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid trip number %q", arg)
	}

	ctrl, err := a.controller(cmd)
	if err != nil {
		return err
	}
	defer a.release(&err)

	if err := ctrl.BeginEdit(n - 1); err != nil {
		return err
	}
	// Leave the controller clean if anything below fails.
	defer ctrl.CancelEdit()

	for _, f := range []struct {
		flag, field string
		value       *string
	}{
		{"start", model.FieldStartDate, &o.start},
		{"end", model.FieldEndDate, &o.end},
		{"destination", model.FieldDestination, &o.destination},
	} {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		if err := ctrl.UpdateDraftField(f.field, *f.value); err != nil {
			return err
		}
	}
	if err := removeItems(ctrl, deref(o.remove)); err != nil {
		return err
	}
	if err := addItems(ctrl, deref(o.add)); err != nil {
		return err
	}
	if o.interactive {
		if err := promptItems(ctrl); err != nil {
			return err
		}
	}

	if err := ctrl.SaveEdit(); err != nil {
		return err
	}
	if err := checkSaved(ctrl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved trip #%d\n", n)
	return nil
}

func deref(m map[string]*[]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = *v
	}
	return out
}
