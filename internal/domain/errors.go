package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrDuplicateRecord   = errors.New("record already exists")
)
