package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// UpstreamError classifies a failure of an external collaborator
// (backend API, country data, geocoder, payment processor).
type UpstreamError struct {
	Service string
	Status  int
	Msg     string
	Err     error
}

func (e UpstreamError) Error() string {
	svc := e.Service
	if svc == "" {
		svc = "upstream"
	}
	if e.Status > 0 && e.Msg != "" {
		return fmt.Sprintf("%s returned %d: %s", svc, e.Status, e.Msg)
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s returned %d", svc, e.Status)
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", svc, e.Msg)
	}
	return fmt.Sprintf("%s request failed", svc)
}

func (e UpstreamError) Unwrap() error { return e.Err }

// PaymentCapturedError marks the case where the card was charged but the
// booking submission did not confirm. Callers must not re-charge; the
// captured payment id identifies the charge for reconciliation.
type PaymentCapturedError struct {
	PaymentID string
	Err       error
}

func (e PaymentCapturedError) Error() string {
	return fmt.Sprintf("payment %s captured but booking not confirmed", e.PaymentID)
}

func (e PaymentCapturedError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsPaymentCaptured(err error) bool {
	var target PaymentCapturedError
	return errors.As(err, &target)
}

// AsPaymentCaptured extracts the payment-captured detail when present.
func AsPaymentCaptured(err error) (PaymentCapturedError, bool) {
	var target PaymentCapturedError
	ok := errors.As(err, &target)
	return target, ok
}
