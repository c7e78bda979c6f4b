package Models

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks model output that could not be parsed even
// after repair, or that is missing the conversations envelope.
var ErrMalformedResponse = errors.New("malformed model response")

// UpstreamError is returned when the completion endpoint answers with a
// non-success status. The status code is kept so the caller can see it.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to call completion API, status code: %d", e.StatusCode)
}

type InsufficientIdentitiesError struct {
	Requested int
	Available int
}

func (e *InsufficientIdentitiesError) Error() string {
	return fmt.Sprintf("at least %d user ids are required, got %d", e.Requested, e.Available)
}

// ChannelAccessError means the acting bot could neither verify nor gain
// membership of the target channel. Always fatal to the run.
type ChannelAccessError struct {
	ChannelId string
	Err       error
}

func (e *ChannelAccessError) Error() string {
	return fmt.Sprintf("cannot access channel %s: %s", e.ChannelId, e.Err.Error())
}

func (e *ChannelAccessError) Unwrap() error {
	return e.Err
}

// AuthorResolutionError carries the offending author token plus the full
// resolvable set, which is what you want in the log when the model has
// invented a participant.
type AuthorResolutionError struct {
	Author string
	Known  []string
}

func (e *AuthorResolutionError) Error() string {
	return fmt.Sprintf("user id for author %s not found in %v", e.Author, e.Known)
}
