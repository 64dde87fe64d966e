package errors

import "errors"

var (
	ErrInvalidElectionInput = errors.New("election input is invalid")
	ErrElectionNotFound     = errors.New("election not found")
	ErrPositionNotFound     = errors.New("position not found")
	ErrDuplicateElection    = errors.New("election already exists")
	ErrInvalidStatus        = errors.New("election status is invalid")
	ErrInvalidTransition    = errors.New("election status transition is not allowed")
	ErrStoreFailure         = errors.New("election store operation failed")
)
