package api

import (
	"errors"
	"fmt"
)

// TimeoutError reports that the cancellation timer fired before the
// request completed; the in-flight call was aborted.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return "request timed out"
}

// StatusError reports a response outside the 2xx range. It carries the
// status code and the server's status text.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Status)
}

// TransportError reports a network-level failure (DNS, connection
// refused, an abort not caused by the timeout timer). The original
// error message is preserved.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that was not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

// IsStatus reports whether err is a StatusError, returning it when so.
func IsStatus(err error) (*StatusError, bool) {
	var s *StatusError
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsDecode reports whether err is a DecodeError.
func IsDecode(err error) bool {
	var d *DecodeError
	return errors.As(err, &d)
}
