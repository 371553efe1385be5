package image

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidScope  = errors.New("at least one scope identifier is required")
)
