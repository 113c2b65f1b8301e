package registry

import (
	"context"
	"errors"

	"github.com/Eventual-Inc/pdfagent/pkg/function"
	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
)

var (
	// ErrFunctionNotFound is returned when no function is registered under a name.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrFunctionExists is returned when a name is registered twice.
	ErrFunctionExists = errors.New("function already registered")

	// ErrInvalidName is returned for an empty function name.
	ErrInvalidName = errors.New("function name cannot be empty")
)

// FunctionRegistry resolves entrypoint names to invocation adapters.
type FunctionRegistry interface {
	RegisterFunction(ctx context.Context, def function.FunctionDefinition) (function.FunctionID, error)
	Lookup(name string) (*invocation.Adapter, error)
	InvokeFunction(ctx context.Context, name string, req invocation.Request) (invocation.Response, error)
	Functions() []function.FunctionDefinition
}
