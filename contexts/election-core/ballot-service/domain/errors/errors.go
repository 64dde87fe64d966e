package errors

import "errors"

var (
	ErrInvalidBallotInput  = errors.New("invalid ballot input")
	ErrAlreadyVoted        = errors.New("voter has already voted in this election")
	ErrIncompleteSelection = errors.New("selections do not satisfy position bounds")
	ErrInvalidReference    = errors.New("selection references an unknown or mismatched record")
	ErrElectionNotFound    = errors.New("election not found")
	ErrElectionNotActive   = errors.New("election is not active")
	ErrVoterNotFound       = errors.New("voter not found")
	ErrVerificationFailed  = errors.New("identity verification failed")
	ErrStoreFailure        = errors.New("ballot store failure")
)
