package domain

import "errors"

// ErrMalformedResponse marks a model completion that could not be turned into
// a trusted AnalysisResult: non-JSON text, wrong field types, or a missing or
// empty required sequence. It is deliberately distinct from transport errors.
var ErrMalformedResponse = errors.New("malformed model response")

// ErrNoContent is returned when a streamed completion terminates without
// having delivered any content at all.
var ErrNoContent = errors.New("no content returned by model")

// ErrNotConfigured is returned by a backend constructed without a credential.
// Its message is the only thing that may reach the client; it must never name
// the missing variable.
var ErrNotConfigured = errors.New("API key not configured")

// ErrNoResult is returned by the result store when no analysis has been
// stored in the current session.
var ErrNoResult = errors.New("no analysis result available")

// InvalidInputError rejects a submission before it reaches the model: wrong
// type, oversized payload, or no file at all. The message is user-facing.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}
