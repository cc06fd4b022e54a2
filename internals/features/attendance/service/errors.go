package service

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidCodeShape    ErrorKind = "InvalidCodeShape"
	KindUnknownPosition     ErrorKind = "UnknownPosition"
	KindDeviceNotAuthorized ErrorKind = "DeviceNotAuthorized"
	KindRemoteUnavailable   ErrorKind = "RemoteUnavailable"
	// Idempotency key already used by a different badge, position or action.
	KindIdempotencyConflict ErrorKind = "IdempotencyConflict"
)

var ErrUnknownAction = errors.New("attendance: unknown action")

// RecordError is a typed rejection or failure of one submission.
type RecordError struct {
	Kind ErrorKind
	Err  error
	// Only meaningful for RemoteUnavailable: the row was certainly not written.
	SafeToRetry bool
}

func (e *RecordError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind of err, if it is a *RecordError.
func KindOf(err error) (ErrorKind, bool) {
	var re *RecordError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
