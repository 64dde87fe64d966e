package errors

import "errors"

var (
	ErrInvalidAccountInput = errors.New("account input is invalid")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUsernameTaken       = errors.New("username is already registered")
	ErrVoterNotFound       = errors.New("voter not found")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrInvalidCredentials  = errors.New("credentials are invalid")
	ErrInvalidToken        = errors.New("session token is invalid")
	ErrStoreFailure        = errors.New("account store operation failed")
)
