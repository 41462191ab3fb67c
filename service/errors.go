package service

import "errors"

var (
	// ErrValidation marks malformed caller input, detected before any signing.
	ErrValidation = errors.New("invalid argument")
	// ErrSerialization marks store contents that do not decode as expected.
	ErrSerialization = errors.New("unable to decode state")
)
