package feed

import "errors"

var (
	// ErrDuplicateUsername is returned when registering a name that is taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned when the username is unknown or the
	// password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when no tweet has the requested id.
	ErrNotFound = errors.New("tweet not found")

	// ErrUnknownUser is returned when posting as a user that was never registered.
	ErrUnknownUser = errors.New("unknown user")
)
