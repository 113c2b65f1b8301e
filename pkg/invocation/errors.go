package invocation

import (
	"errors"
	"fmt"
)

var (
	// ErrHandlerNil is returned when an adapter is built without a handler.
	ErrHandlerNil = errors.New("invocation handler cannot be nil")

	// ErrNilResponse is the cause carried by a SerializationError when a
	// handler succeeds without producing a response.
	ErrNilResponse = errors.New("handler returned a nil response")
)

// DeserializationError reports an incoming payload that is not a structured
// request. The handler is never called.
type DeserializationError struct {
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("could not decode invocation request: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// HandlerError reports a fault raised by the user handler, either as a
// returned error or as a recovered panic. Err is the original cause.
type HandlerError struct {
	Function string
	Err      error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %q failed: %v", e.Function, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// SerializationError reports a handler response that cannot be encoded back
// to the caller. The response is dropped.
type SerializationError struct {
	Function string
	Err      error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("handler %q produced an unencodable response: %v", e.Function, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// PanicError is the cause recorded when a handler panics.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// ErrorType returns the taxonomy name of err ("HandlerError", ...), or
// "Unknown" when err is outside it.
func ErrorType(err error) string {
	var (
		de *DeserializationError
		he *HandlerError
		se *SerializationError
	)
	switch {
	case errors.As(err, &de):
		return "DeserializationError"
	case errors.As(err, &he):
		return "HandlerError"
	case errors.As(err, &se):
		return "SerializationError"
	default:
		return "Unknown"
	}
}
