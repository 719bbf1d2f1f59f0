package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidView = errors.New("invalid view")
)
