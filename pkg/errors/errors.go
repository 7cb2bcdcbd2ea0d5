package qrdrop_errors

import "errors"

// Common errors
var (
	ErrNotFound        = errors.New("not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrNoFile          = errors.New("no file uploaded")
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooLarge        = errors.New("file too large")
	ErrRateLimited     = errors.New("rate limited")
	ErrStorageFailure  = errors.New("upload failed")
)
