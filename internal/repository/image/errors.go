package image

import "errors"

var (
	ErrImageNotFound = errors.New("image not found")
	ErrStorageError  = errors.New("storage error")
)
