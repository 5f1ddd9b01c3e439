package errprocess

import (
	"errors"
	"fmt"
)

// Kind classify error for transport mapping
type Kind string

const (
	// KindUnauthenticated missing or invalid credential
	KindUnauthenticated Kind = "unauthenticated"
	// KindForbidden actor has no access to the target resource
	KindForbidden Kind = "forbidden"
	// KindNotFound id does not resolve
	KindNotFound Kind = "not_found"
	// KindValidation malformed payload
	KindValidation Kind = "validation_failed"
	// KindStorageUnavailable transient storage failure
	KindStorageUnavailable Kind = "storage_unavailable"
	// KindDuplicateChat two chat documents for one pair, consistency bug
	KindDuplicateChat Kind = "duplicate_chat"
	// KindInternal everything else
	KindInternal Kind = "internal"
)

// AppError carries a Kind and an optional cause
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap expose cause for errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is match two AppError by Kind when target has no message
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Msg == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// New create AppError
func New(kind Kind, msg string) *AppError {
	return &AppError{Kind: kind, Msg: msg}
}

// Wrap create AppError with cause, nil err return nil
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{Kind: kind, Msg: msg, Err: err}
}

// Storage wrap a driver error as storage_unavailable
func Storage(op string, err error) error {
	return Wrap(KindStorageUnavailable, op, err)
}

// KindOf find the first AppError kind in chain, internal if none
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind check err chain contains kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
