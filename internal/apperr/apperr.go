// Package apperr defines the failure kinds surfaced by upstream integrations.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies where and why an operation failed.
type Kind string

const (
	LookupFailed          Kind = "lookup_failed"
	NoRecordingYet        Kind = "no_recording_yet"
	JobSubmissionFailed   Kind = "job_submission_failed"
	StatusCheckFailed     Kind = "status_check_failed"
	JobFailed             Kind = "job_failed"
	JobTimeout            Kind = "job_timeout"
	TranscriptFetchFailed Kind = "transcript_fetch_failed"
	InvalidDestination    Kind = "invalid_destination"
	CallPlacementFailed   Kind = "call_placement_failed"
	MissingCallID         Kind = "missing_call_id"
	MalformedResponse     Kind = "malformed_response"
	UpstreamFailed        Kind = "upstream_failed"
)

// Error carries a Kind alongside the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with a formatted message.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error around an underlying cause.
func Wrap(kind Kind, op string, err error, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries any of the given kinds.
func IsKind(err error, kinds ...Kind) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
