package api

import "fmt"

// APIError is an application-level failure reported by the gateway: a
// non-2xx status or a failed response envelope. It is surfaced to the
// caller of the action and never retried by the client.
type APIError struct {
	Action     string
	HTTPStatus int
	Retcode    int64
	Message    string
}

func (e *APIError) Error() string {
	if e.Retcode != 0 {
		return fmt.Sprintf("action %s failed: retcode %d: %s", e.Action, e.Retcode, e.Message)
	}
	return fmt.Sprintf("action %s failed: HTTP %d: %s", e.Action, e.HTTPStatus, e.Message)
}

// TransportError is a network or HTTP-layer failure, distinct from the
// gateway answering with an error.
type TransportError struct {
	Action string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("action %s: transport: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnsupportedActionError reports an action name this client build does not
// implement. No network call is attempted.
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("action %s is not supported by this client", e.Action)
}
