package mimetypes

import "errors"

var (
	// ErrInvalidArgument is returned by Register and Apply for a malformed key,
	// an empty accept list, a bad media range, header or quality.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownMimeType is returned by lookups for a key that is not registered.
	ErrUnknownMimeType = errors.New("unknown mime type")
)
