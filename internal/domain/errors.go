package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a read that matched no document.
	ErrNotFound = errors.New("not found")
	// ErrUnknownModel signals a query against an unregistered model.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnsupportedOperator signals a filter operator with no engine mapping.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrEngine signals an error reported by the search daemon itself.
	ErrEngine = errors.New("engine error")
)

// UnsupportedOperatorError names the operator a filter condition used
// that has no filter mapping. Detected before any network call.
type UnsupportedOperatorError struct {
	Op string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedOperator.Error(), e.Op)
}

func (e *UnsupportedOperatorError) Unwrap() error { return ErrUnsupportedOperator }

// EngineError carries the daemon's error string verbatim.
type EngineError struct {
	Msg string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEngine.Error(), e.Msg)
}

func (e *EngineError) Unwrap() error { return ErrEngine }
