package project

import "errors"

var (
	// ErrProjectNotFound indicates the issue key is not tracked.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectTerminal indicates the project is finished or abandoned.
	ErrProjectTerminal = errors.New("project is in a terminal state")
	// ErrUnknownRole indicates a role that is not meaningful for the
	// project's type.
	ErrUnknownRole = errors.New("unknown role for project type")
)
