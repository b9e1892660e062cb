package vouch

import "errors"

// Error messages double as the wire-level error strings, so the session
// errors keep the short forms clients already match on.
var (
	// ErrDuplicate is returned when the address already vouched for the username.
	ErrDuplicate = errors.New("You have already vouched for this user from this IP")

	// ErrRateLimited is returned when the address exceeded the rolling-window cap.
	ErrRateLimited = errors.New("Rate limited")

	// ErrMessageTooLong is returned when the message exceeds the length cap.
	ErrMessageTooLong = errors.New("Message too long")

	// ErrInvalidKind is returned for an unknown vouch type.
	ErrInvalidKind = errors.New("Invalid type")

	// ErrSessionNotFound is returned when the session id is unknown or the
	// vouch it points to is gone.
	ErrSessionNotFound = errors.New("invalid")

	// ErrSessionForbidden is returned when the caller's address does not
	// match the session's recorded address.
	ErrSessionForbidden = errors.New("no permission")

	// ErrSessionExpired is returned when the session passed its deadline.
	ErrSessionExpired = errors.New("outoftime")
)

// ContentRejectedError carries the moderation verdict's reason. Gateway
// faults surface as this error with the default reason: fail closed.
type ContentRejectedError struct {
	Reason string
}

func (e ContentRejectedError) Error() string {
	return e.Reason
}
