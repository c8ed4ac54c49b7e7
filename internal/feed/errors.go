package feed

import "fmt"

// ErrorKind classifies a fetch failure so the poll scheduler can pick a
// retry policy without string-matching error text.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindConnection  ErrorKind = "connection"
	KindBadStatus   ErrorKind = "bad_status"
	KindParse       ErrorKind = "parse"
	KindCircuitOpen ErrorKind = "circuit_open"
)

// FetchError is the typed failure returned by Client.Fetch. It carries
// the classification, the HTTP status for bad_status failures, and the
// underlying cause.
type FetchError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindBadStatus {
		return fmt.Sprintf("fetch warnings: %s: status %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("fetch warnings: %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(kind ErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}
