// Package poserr defines the domain error taxonomy shared by the billing
// engine, the services and the HTTP layer. Controllers map these to status
// codes with HTTPStatus instead of deciding codes inline.
package poserr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func NotFound(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// InvalidTransitionError reports a lifecycle action applied in a state
// that does not allow it.
type InvalidTransitionError struct {
	Action string
	Status string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an order with status %q", e.Action, e.Status)
}

// OverAllocationError reports a bill split assigning more units of a line
// item than the order holds.
type OverAllocationError struct {
	ItemID    uint
	Assigned  int
	Available int
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("item %d over-allocated: assigned %d of %d", e.ItemID, e.Assigned, e.Available)
}

// UnknownActionError reports an unrecognized lifecycle command.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

// ConflictError reports a lost optimistic-concurrency race.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus returns the response code for a domain error, or 500 for
// anything outside the taxonomy.
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		transition *InvalidTransitionError
		overAlloc  *OverAllocationError
		unknown    *UnknownActionError
		conflict   *ConflictError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &overAlloc), errors.As(err, &unknown):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &transition), errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
