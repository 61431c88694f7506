package roster

import "errors"

var (
	// ErrMemberNotFound indicates the user id has no roster entry.
	ErrMemberNotFound = errors.New("member not found")
	// ErrUnknownTrackerName indicates no member maps to the tracker
	// username reported by a webhook.
	ErrUnknownTrackerName = errors.New("no member for tracker username")
)
