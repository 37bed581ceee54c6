package paperless

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnreachable marks transport-level failures (connection refused,
	// DNS, client timeout). Safe for the caller to retry.
	ErrRemoteUnreachable = errors.New("paperless: remote unreachable")

	// ErrRemoteRejected marks a non-success HTTP response from Paperless for a
	// request we made. The remote error body is carried by RemoteError.
	ErrRemoteRejected = errors.New("paperless: request rejected")

	// ErrRemoteNotFound marks a 404 for a document id unknown to Paperless.
	ErrRemoteNotFound = errors.New("paperless: document not found")

	// ErrUnknownStatus marks a task status outside the vocabulary this client
	// understands. It is a contract change or defect, never a processing
	// failure, and must not be coerced into one.
	ErrUnknownStatus = errors.New("paperless: unknown task status")
)

// RemoteError carries the HTTP status and response body of a rejected request.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("paperless: %s rejected with status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() error { return ErrRemoteRejected }

// UnknownStatusError carries the raw status string Paperless returned.
type UnknownStatusError struct {
	Raw string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("paperless: unknown task status %q", e.Raw)
}

func (e *UnknownStatusError) Unwrap() error { return ErrUnknownStatus }
