package board_errors

import (
	"errors"
)

// Common errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrContentEmpty       = errors.New("content is required")
	ErrContentTooLong     = errors.New("content exceeds 60 characters")
	ErrRateLimited        = errors.New("rate limited")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotUpdatable       = errors.New("messages cannot be edited")
)
