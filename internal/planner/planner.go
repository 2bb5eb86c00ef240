// Package planner holds the trip store controller: the committed trip
// collection, the draft being composed or edited, and the operations the
// view layer drives.
package planner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Tiliavir/trivial-trip-planner/internal/model"
	"github.com/Tiliavir/trivial-trip-planner/internal/prompt"
	"github.com/Tiliavir/trivial-trip-planner/internal/storage"
)

// promptLabels are the questions asked when collecting a list item.
var promptLabels = map[string]string{
	model.ListActivities: "Enter the activity:",
	model.ListExpenses:   "Enter the expense:",
	model.ListCompanions: "Enter the travel companion name:",
}

// Controller owns the trip collection and the draft. It is not safe for
// concurrent use; every call runs to completion for one user action.
type Controller struct {
	store    storage.Store
	prompter prompt.Prompter
	log      *slog.Logger

	trips     []model.Trip
	draft     model.Trip
	editIndex *int
	lastError string
	saveErr   error
}

// New loads the collection from store. A missing or corrupt stored value
// starts an empty collection; any other load error is returned.
func New(store storage.Store, prompter prompt.Prompter, log *slog.Logger) (*Controller, error) {
	if log == nil {
		log = slog.Default()
	}

	trips, err := store.Load()
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		trips = []model.Trip{}
	case errors.Is(err, storage.ErrCorrupt):
		log.Warn("stored trips are unreadable, starting with an empty list", "error", err)
		trips = []model.Trip{}
	default:
		return nil, fmt.Errorf("loading trips: %w", err)
	}
	log.Debug("trips loaded", "count", len(trips))

	return &Controller{
		store:    store,
		prompter: prompter,
		log:      log,
		trips:    trips,
		draft:    model.NewTrip(),
	}, nil
}

// Trips returns a copy of the committed collection.
func (c *Controller) Trips() []model.Trip {
	out := make([]model.Trip, len(c.trips))
	for i, t := range c.trips {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of committed trips.
func (c *Controller) Len() int {
	return len(c.trips)
}

// Draft returns a copy of the draft.
func (c *Controller) Draft() model.Trip {
	return c.draft.Clone()
}

// EditingIndex reports which trip the draft edits, if any.
func (c *Controller) EditingIndex() (int, bool) {
	if c.editIndex == nil {
		return 0, false
	}
	return *c.editIndex, true
}

// LastError is the message of the last failed commit, "" after a success.
func (c *Controller) LastError() string {
	return c.lastError
}

// SaveErr returns the error of the most recent store write, nil if it
// succeeded or nothing has been written yet.
func (c *Controller) SaveErr() error {
	return c.saveErr
}

// UpdateDraftField sets startDate, endDate or destination on the draft.
func (c *Controller) UpdateDraftField(field, value string) error {
	p := c.draft.Field(field)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*p = value
	return nil
}

// AddTrip commits the draft as a new trip at the end of the collection.
func (c *Controller) AddTrip() error {
	if err := c.validate(); err != nil {
		return err
	}
	c.trips = append(c.trips, c.draft.Clone())
	c.persist("add")
	c.resetDraft()
	return nil
}

// BeginEdit loads trip index into the draft and marks it as being edited.
func (c *Controller) BeginEdit(index int) error {
	if index < 0 || index >= len(c.trips) {
		return indexError(index, len(c.trips))
	}
	c.editIndex = &index
	c.draft = c.trips[index].Clone()
	return nil
}

// SaveEdit replaces the edited trip with the draft.
func (c *Controller) SaveEdit() error {
	if c.editIndex == nil {
		return ErrNotEditing
	}
	if err := c.validate(); err != nil {
		return err
	}
	c.trips[*c.editIndex] = c.draft.Clone()
	c.persist("edit")
	c.resetDraft()
	return nil
}

// CancelEdit abandons the current edit, if any, and clears the draft.
func (c *Controller) CancelEdit() {
	c.resetDraft()
}

// DeleteTrip removes trip index, keeping the order of the others.
func (c *Controller) DeleteTrip(index int) error {
	if index < 0 || index >= len(c.trips) {
		return indexError(index, len(c.trips))
	}
	kept := make([]model.Trip, 0, len(c.trips)-1)
	for i, t := range c.trips {
		if i != index {
			kept = append(kept, t)
		}
	}
	c.trips = kept

	if c.editIndex != nil {
		switch {
		case *c.editIndex == index:
			c.resetDraft()
		case *c.editIndex > index:
			shifted := *c.editIndex - 1
			c.editIndex = &shifted
		}
	}
	c.persist("delete")
	return nil
}

// AddListItem appends value to the named draft list. Empty values are ignored.
func (c *Controller) AddListItem(list, value string) error {
	p := c.draft.List(list)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if value == "" {
		return nil
	}
	*p = append(*p, value)
	return nil
}

// RemoveListItem drops every entry equal to value from the named draft list.
// Duplicates cannot be removed one at a time.
func (c *Controller) RemoveListItem(list, value string) error {
	p := c.draft.List(list)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	kept := make([]string, 0, len(*p))
	for _, v := range *p {
		if v != value {
			kept = append(kept, v)
		}
	}
	*p = kept
	return nil
}

// PromptListItem asks the prompter for one item and appends it to the named
// list. It reports whether an item was added; an empty or cancelled answer
// adds nothing.
func (c *Controller) PromptListItem(list string) (bool, error) {
	label, ok := promptLabels[list]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if c.prompter == nil {
		return false, errors.New("no prompter configured")
	}
	answer, ok, err := c.prompter.PromptLine(label)
	if err != nil {
		return false, err
	}
	if !ok || answer == "" {
		return false, nil
	}
	return true, c.AddListItem(list, answer)
}

// validate applies the only rule: the end date may not sort before the
// start date. Dates are compared as ISO strings.
func (c *Controller) validate() error {
	if c.draft.EndDate < c.draft.StartDate {
		c.lastError = DateOrderMessage
		return &DateOrderError{StartDate: c.draft.StartDate, EndDate: c.draft.EndDate}
	}
	c.lastError = ""
	return nil
}

func (c *Controller) resetDraft() {
	c.draft = model.NewTrip()
	c.editIndex = nil
}

// persist writes the whole collection. A failed write does not fail the
// operation: it is logged and kept for SaveErr, and the in-memory
// collection stays authoritative.
func (c *Controller) persist(op string) {
	c.saveErr = c.store.Save(c.trips)
	if err := c.saveErr; err != nil {
		c.log.Error("saving trips failed, changes kept in memory only",
			"op", op, "count", len(c.trips), "error", err)
		return
	}
	c.log.Debug("trips saved", "op", op, "count", len(c.trips))
}
