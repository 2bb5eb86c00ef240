package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
	"github.com/Tiliavir/trivial-trip-planner/internal/planner"
)

type addOptions struct {
	start       string
	end         string
	destination string
	activities  []string
	expenses    []string
	companions  []string
	interactive bool
}

func newAddCmd(a *app) *cobra.Command {
	o := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new trip",
		Long: `Add a new trip. Dates are YYYY-MM-DD; the end date may not be before
the start date. With -i you are asked for activities, expenses and
companions one at a time until you leave the answer empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, a, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.start, "start", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&o.end, "end", "", "End date (YYYY-MM-DD)")
	f.StringVar(&o.destination, "destination", "", "Destination")
	f.StringArrayVar(&o.activities, "activity", nil, "Activity (repeatable)")
	f.StringArrayVar(&o.expenses, "expense", nil, "Expense (repeatable)")
	f.StringArrayVar(&o.companions, "companion", nil, "Travel companion (repeatable)")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "Prompt for list items")
	return cmd
}

func runAdd(cmd *cobra.Command, a *app, o *addOptions) (err error) {
	ctrl, err := a.controller(cmd)
	if err != nil {
		return err
	}
	defer a.release(&err)

	fields := map[string]string{
		model.FieldStartDate:   o.start,
		model.FieldEndDate:     o.end,
		model.FieldDestination: o.destination,
	}
	for name, value := range fields {
		if err := ctrl.UpdateDraftField(name, value); err != nil {
			return err
		}
	}
	lists := map[string][]string{
		model.ListActivities: o.activities,
		model.ListExpenses:   o.expenses,
		model.ListCompanions: o.companions,
	}
	if err := addItems(ctrl, lists); err != nil {
		return err
	}
	if o.interactive {
		if err := promptItems(ctrl); err != nil {
			return err
		}
	}

	if err := ctrl.AddTrip(); err != nil {
		return err
	}
	if err := checkSaved(ctrl); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added trip #%d to %q\n", ctrl.Len(), o.destination)
	return nil
}

// listOrder is the order lists are prompted for and applied in.
var listOrder = []string{model.ListActivities, model.ListExpenses, model.ListCompanions}

func addItems(ctrl *planner.Controller, lists map[string][]string) error {
	for _, name := range listOrder {
		for _, v := range lists[name] {
			if err := ctrl.AddListItem(name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeItems(ctrl *planner.Controller, lists map[string][]string) error {
	for _, name := range listOrder {
		for _, v := range lists[name] {
			if err := ctrl.RemoveListItem(name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// promptItems asks for items of every list until an empty or cancelled answer.
func promptItems(ctrl *planner.Controller) error {
	for _, name := range listOrder {
		for {
			added, err := ctrl.PromptListItem(name)
			if err != nil {
				return err
			}
			if !added {
				break
			}
		}
	}
	return nil
}
