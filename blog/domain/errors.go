package domain

import "errors"

var (
	// ErrNotFound is returned when a post id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUploadRejected covers wrong content types, oversize payloads and storage failures on upload.
	ErrUploadRejected = errors.New("upload rejected")
	// ErrBackendUnavailable wraps network or store failures on write paths.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInvalidInput is returned for inputs the store cannot accept, such as an empty category name.
	ErrInvalidInput = errors.New("invalid input")
)
