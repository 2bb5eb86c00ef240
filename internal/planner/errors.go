package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when an index does not name a trip.
	ErrIndexOutOfRange = errors.New("trip index out of range")
	// ErrNotEditing is returned by SaveEdit when no trip is being edited.
	ErrNotEditing = errors.New("no trip is being edited")
	// ErrUnknownField is returned for a scalar field name other than
	// startDate, endDate or destination.
	ErrUnknownField = errors.New("unknown trip field")
	// ErrUnknownList is returned for a list name other than activities,
	// expenses or companions.
	ErrUnknownList = errors.New("unknown trip list")
)

// DateOrderMessage is the user-facing text of a DateOrderError.
const DateOrderMessage = "End date cannot be before the start date."

// DateOrderError reports a draft whose end date precedes its start date.
// It is a validation result: state is left untouched and the message is
// kept in LastError until the next successful commit.
type DateOrderError struct {
	StartDate string
	EndDate   string
}

func (e *DateOrderError) Error() string {
	return DateOrderMessage
}

func indexError(index, length int) error {
	return fmt.Errorf("%w: %d (have %d trips)", ErrIndexOutOfRange, index, length)
}
