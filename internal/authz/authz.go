// Package authz carries the request-scoped authorization context that
// mutating operations require.
package authz

import "errors"

// ErrForbidden is returned when the acting principal may not mutate state.
var ErrForbidden = errors.New("administrator login required")

// Actor identifies who is performing an operation.
type Actor struct {
	Name  string
	Admin bool
}

// Anonymous is the actor of a request without a valid session.
var Anonymous = Actor{}

// Administrator returns the actor for the shared administrator credential.
func Administrator(name string) Actor {
	return Actor{Name: name, Admin: true}
}

// RequireAdmin returns ErrForbidden unless the actor is an administrator.
func (a Actor) RequireAdmin() error {
	if !a.Admin {
		return ErrForbidden
	}
	return nil
}
