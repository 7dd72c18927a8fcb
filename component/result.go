package component

import (
	"errors"
	"fmt"
)

// RegisterResult is the outcome of registering one procedure.  Err is nil on
// success.
type RegisterResult struct {
	Procedure string
	Err       error
}

// OK returns true if the procedure was registered.
func (r RegisterResult) OK() bool { return r.Err == nil }

// JoinResult collects what a handler did while handling a join, so that the
// runner can decide whether to keep the session or abandon it.
type JoinResult struct {
	Registrations []RegisterResult
}

// Err returns the joined registration failures, or nil if every registration
// succeeded.
func (r JoinResult) Err() error {
	var errs []error
	for _, reg := range r.Registrations {
		if reg.Err != nil {
			errs = append(errs, fmt.Errorf("register %s: %w", reg.Procedure, reg.Err))
		}
	}
	return errors.Join(errs...)
}

// Registered returns the names of the procedures that were registered.
func (r JoinResult) Registered() []string {
	var names []string
	for _, reg := range r.Registrations {
		if reg.OK() {
			names = append(names, reg.Procedure)
		}
	}
	return names
}
