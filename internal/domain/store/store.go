// Package store classifies storage failures independently of the backing
// driver.
package store

import "github.com/go-faster/errors"

// UnavailableError marks a failure to reach the store at all (dial,
// handshake, or other transport errors) as opposed to a failed query.
// Repositories tag transport failures with it so callers can tell the two
// apart without knowing the driver.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return "store unavailable: " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable reports whether err carries an UnavailableError.
func IsUnavailable(err error) bool {
	var u *UnavailableError
	return errors.As(err, &u)
}
