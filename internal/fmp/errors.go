package fmp

import "fmt"

// ErrorKind classifies upstream failures so callers can report a stable
// category per failure mode.
type ErrorKind int

const (
	// KindUpstream means the provider answered with a 4xx/5xx status.
	// Covers invalid or missing API keys (401/403) and quota exhaustion
	// (429) as well as provider-side 5xx.
	KindUpstream ErrorKind = iota
	// KindUnavailable means the provider could not be reached at all:
	// DNS failure, refused connection, or timeout.
	KindUnavailable
	// KindProtocol means the provider answered with a success status but
	// a body that is not valid JSON.
	KindProtocol
)

// String returns the stable prefix used in error messages for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUpstream:
		return "upstream error"
	case KindUnavailable:
		return "upstream unavailable"
	case KindProtocol:
		return "upstream protocol error"
	default:
		return "upstream failure"
	}
}

// Error is a classified upstream failure. Status carries the provider's
// HTTP status code where one was received, zero otherwise. Message is
// already scrubbed of the API key by the time an Error leaves the client.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
