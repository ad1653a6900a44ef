package fetch

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks failures where the backend could not be reached.
	ErrNetwork = errors.New("network error")
	// ErrBackend marks failures reported by the backend itself: a non-2xx
	// status or a body that does not match the expected schema.
	ErrBackend = errors.New("backend error")
)

// ErrorKind classifies a FetchError.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindBackend
)

func (k ErrorKind) String() string {
	switch k {
	case KindBackend:
		return "backend"
	default:
		return "network"
	}
}

const userMessage = "Could not load the data. Please try again later."

// FetchError is the error stored in State when a page or search fetch fails.
type FetchError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user. Network and backend failures read
// the same.
func (e *FetchError) Message() string {
	return userMessage
}

// NewFetchError classifies err as a backend or network failure.
func NewFetchError(op string, err error) *FetchError {
	kind := KindNetwork
	if errors.Is(err, ErrBackend) {
		kind = KindBackend
	}
	return &FetchError{Kind: kind, Op: op, Err: err}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
