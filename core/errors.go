package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDatabaseID is returned for a sync entry without a database id.
	ErrMissingDatabaseID = errors.New("sync entry has no database id")
	// ErrMissingCredentials is returned when the remote store rejects or lacks a token.
	ErrMissingCredentials = errors.New("missing or rejected credentials")
)

// UnrecognizedPropertyKindError reports a property kind outside the known set.
type UnrecognizedPropertyKindError struct {
	Property string
	Kind     string
}

func (e *UnrecognizedPropertyKindError) Error() string {
	return fmt.Sprintf("property %q has unrecognized kind %q", e.Property, e.Kind)
}

// MissingIdentityError reports a page with neither slug nor title.
type MissingIdentityError struct {
	PageID string
}

func (e *MissingIdentityError) Error() string {
	return fmt.Sprintf("no title or slug in header for page %s", e.PageID)
}

// ImageDecodeError reports a downloaded file that is not a decodable image.
type ImageDecodeError struct {
	Path string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("decoding image %s: %v", e.Path, e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// MalformedReferenceError reports asset markup that does not match
// ![name](url).
type MalformedReferenceError struct {
	Markup string
	Reason string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("malformed asset reference %q: %s", e.Markup, e.Reason)
}
