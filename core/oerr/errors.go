// Package oerr describes ocre-sdk errors.
//
// Every public operation of the SDK reports failure through one of the
// sentinel errors below, possibly wrapped with additional context. Callers
// match with errors.Is:
//
//	if errors.Is(err, oerr.ErrNoCapacity) { ... }
package oerr

import "errors"

// Code is the numeric status a host boundary reports. The values mirror the
// wire-level return codes of the Ocre runtime.
type Code int32

const (
	// CodeSuccess indicates the operation completed.
	CodeSuccess Code = 0
	// CodeInvalid indicates a bad argument.
	CodeInvalid Code = -1
	// CodeTimeout indicates the operation timed out.
	CodeTimeout Code = -2
	// CodeNotFound indicates the resource or entry does not exist.
	CodeNotFound Code = -3
	// CodeBusy indicates the resource is busy.
	CodeBusy Code = -4
	// CodeNoMemory indicates a fixed-capacity table or host pool is exhausted.
	CodeNoMemory Code = -5
)

var (
	// ErrInvalid is returned for out-of-range ids, nil callbacks and empty or
	// oversized topics.
	ErrInvalid = errors.New("invalid argument")

	// ErrNotFound is returned when unregistering an entry that was never
	// registered, or by host lookups that miss.
	ErrNotFound = errors.New("not found")

	// ErrNoCapacity is returned when a callback table has no free slot left.
	// Existing entries are never evicted to make room.
	ErrNoCapacity = errors.New("no capacity")

	// ErrNotAvailable is the normal "no event pending" signal from the host
	// boundary. It is not a failure.
	ErrNotAvailable = errors.New("not available")

	// ErrTimeout is returned by host operations that time out.
	ErrTimeout = errors.New("timeout")

	// ErrBusy is returned by host operations on a busy resource.
	ErrBusy = errors.New("resource busy")
)

// FromCode converts a host status code to its sentinel error.
// CodeSuccess converts to nil; unknown negative codes map to ErrInvalid.
func FromCode(c Code) error {
	switch c {
	case CodeSuccess:
		return nil
	case CodeInvalid:
		return ErrInvalid
	case CodeTimeout:
		return ErrTimeout
	case CodeNotFound:
		return ErrNotFound
	case CodeBusy:
		return ErrBusy
	case CodeNoMemory:
		return ErrNoCapacity
	default:
		return ErrInvalid
	}
}

// ToCode converts an error back to the host status code.
// A nil error converts to CodeSuccess.
func ToCode(err error) Code {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrBusy):
		return CodeBusy
	case errors.Is(err, ErrNoCapacity):
		return CodeNoMemory
	default:
		return CodeInvalid
	}
}
