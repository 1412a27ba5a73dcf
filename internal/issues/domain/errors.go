package domain

import "errors"

var (
	ErrMissingFields   = errors.New("required field(s) missing")
	ErrMissingID       = errors.New("missing id")
	ErrNoUpdateFields  = errors.New("no update field(s) sent")
	ErrCouldNotUpdate  = errors.New("could not update")
	ErrCouldNotDelete  = errors.New("could not delete")
	ErrProjectNotFound = errors.New("project not found")
	ErrIssueNotFound   = errors.New("issue not found")
	ErrInvalidOpen     = errors.New("invalid open value")
)
