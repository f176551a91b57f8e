package session

import "errors"

var (
	// ErrSessionNotFound reports an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrMediaNotFound reports a stem absent from the session.
	ErrMediaNotFound = errors.New("media not found")
)
