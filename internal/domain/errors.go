package domain

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrHandleTaken        = errors.New("handle already in use")
	ErrConfiguration      = errors.New("configuration error")
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)
