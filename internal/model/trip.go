package model

// Field names accepted by the draft editing operations. They double as the
// JSON keys of a stored trip.
const (
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldDestination = "destination"

	ListActivities = "activities"
	ListExpenses   = "expenses"
	ListCompanions = "companions"
)

// Trip is a single travel plan. Dates are ISO 8601 date strings (2006-01-02)
// exactly as entered; they are compared as strings.
type Trip struct {
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Destination string   `json:"destination"`
	Activities  []string `json:"activities"`
	Expenses    []string `json:"expenses"`
	Companions  []string `json:"companions"`
}

// NewTrip returns an empty trip with non-nil lists, the state of a blank form.
func NewTrip() Trip {
	return Trip{
		Activities: []string{},
		Expenses:   []string{},
		Companions: []string{},
	}
}

// Clone returns a deep copy so the lists of the copy can be edited freely.
func (t Trip) Clone() Trip {
	c := t
	c.Activities = cloneList(t.Activities)
	c.Expenses = cloneList(t.Expenses)
	c.Companions = cloneList(t.Companions)
	return c
}

// Normalize replaces nil lists with empty ones so a trip always encodes
// its lists as JSON arrays.
func (t *Trip) Normalize() {
	if t.Activities == nil {
		t.Activities = []string{}
	}
	if t.Expenses == nil {
		t.Expenses = []string{}
	}
	if t.Companions == nil {
		t.Companions = []string{}
	}
}

// List returns a pointer to the named list, or nil for an unknown name.
func (t *Trip) List(name string) *[]string {
	switch name {
	case ListActivities:
		return &t.Activities
	case ListExpenses:
		return &t.Expenses
	case ListCompanions:
		return &t.Companions
	}
	return nil
}

// Field returns a pointer to the named scalar field, or nil for an unknown name.
func (t *Trip) Field(name string) *string {
	switch name {
	case FieldStartDate:
		return &t.StartDate
	case FieldEndDate:
		return &t.EndDate
	case FieldDestination:
		return &t.Destination
	}
	return nil
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
