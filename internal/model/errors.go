package model

import "errors"

var (
	ErrInvalidID       = errors.New("invalid identifier")
	ErrValidation      = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrEmptyFilter     = errors.New("must specify at least one filter")
	ErrResultsTooLarge = errors.New("results too large, be more restrictive in filter")
	ErrEmptyComment    = errors.New("comment text cannot be empty")

	ErrUserExists        = errors.New("a user with the given email already exists")
	ErrUserNotFound      = errors.New("no user found with that email")
	ErrAuthentication    = errors.New("authentication failed")
	ErrSessionNotFound   = errors.New("session not found")
	ErrAdminRequired     = errors.New("you need to be admin to use this functionality")
	ErrInvalidSearchKind = errors.New("unknown search kind")
)
