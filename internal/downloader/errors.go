package downloader

import (
	"errors"
	"fmt"
)

// Kind classifies a download failure.
type Kind string

const (
	KindInvalidURL               Kind = "invalid_url"
	KindRemoteUnavailable        Kind = "remote_unavailable"
	KindMetadataExtractionFailed Kind = "metadata_extraction_failed"
	KindNoFormatAvailable        Kind = "no_format_available"
	KindInvalidQualityValue      Kind = "invalid_quality_value"
	KindDestinationExists        Kind = "destination_exists"
	KindIOError                  Kind = "io_error"
	KindStreamError              Kind = "stream_error"
)

// Reason details why a remote video cannot be downloaded.
type Reason string

const (
	ReasonAgeRestricted Reason = "age_restricted"
	ReasonPrivate       Reason = "private"
	ReasonUnavailable   Reason = "unavailable"
	ReasonRemoved       Reason = "removed"
)

// Error is the user-facing error returned by every operation of this package.
type Error struct {
	Kind   Kind
	Reason Reason // only set for KindRemoteUnavailable
	Msg    string
	Err    error

	// Set once metadata was fetched.
	VideoID string
	Title   string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the sentinels
// below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

var (
	ErrInvalidURL               = &Error{Kind: KindInvalidURL, Msg: "invalid URL"}
	ErrRemoteUnavailable        = &Error{Kind: KindRemoteUnavailable, Msg: "video unavailable"}
	ErrMetadataExtractionFailed = &Error{Kind: KindMetadataExtractionFailed, Msg: "metadata extraction failed"}
	ErrNoFormatAvailable        = &Error{Kind: KindNoFormatAvailable, Msg: "no video formats available for this video"}
	ErrInvalidQualityValue      = &Error{Kind: KindInvalidQualityValue, Msg: "invalid quality value"}
	ErrDestinationExists        = &Error{Kind: KindDestinationExists, Msg: "file already exists"}
	ErrIOError                  = &Error{Kind: KindIOError, Msg: "i/o error"}
	ErrStreamError              = &Error{Kind: KindStreamError, Msg: "stream error"}
)

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func unavailable(reason Reason, msg string, err error) *Error {
	return &Error{Kind: KindRemoteUnavailable, Reason: reason, Msg: msg, Err: err}
}

// withVideo returns a copy of err annotated with the video it concerns.
// Errors that are not *Error values are returned unchanged.
func withVideo(err error, meta *Metadata) error {
	e, ok := err.(*Error)
	if !ok || meta == nil {
		return err
	}
	c := *e
	c.VideoID = meta.ID
	c.Title = meta.Title
	return &c
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
