// file: internals/clients/attendclient/errors.go
package attendclient

import "fmt"

// ValidationError: a required argument is missing or malformed. Caller-
// correctable; never retried automatically.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// NetworkError: the transport failed before a well-formed response arrived.
// Eligible for user-initiated retry; the gate never swallows it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError: the remote answered and rejected the request (non-2xx or an
// error envelope). The message is surfaced verbatim.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service: HTTP %d", e.StatusCode)
}
