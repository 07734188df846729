package backend

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a sync did not produce categories
type FailureKind string

const (
	NotAuthenticated   FailureKind = "not_authenticated"
	ServerError        FailureKind = "server_error"
	BackendUnreachable FailureKind = "unreachable"
)

// SyncError is returned by FetchResult for every non-success outcome
type SyncError struct {
	Kind       FailureKind
	StatusCode int    // ServerError only
	Status     string // NotAuthenticated only, as reported by the backend
	Err        error
}

func (e *SyncError) Error() string {
	switch e.Kind {
	case NotAuthenticated:
		return fmt.Sprintf("backend: not authenticated (status %q)", e.Status)
	case ServerError:
		return fmt.Sprintf("backend: unexpected http status %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("backend: unreachable: %v", e.Err)
		}
		return "backend: unreachable"
	}
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind of err. Errors that are not a
// *SyncError count as BackendUnreachable.
func KindOf(err error) FailureKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return BackendUnreachable
}
