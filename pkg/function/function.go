package function

import (
	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
)

// DefaultEntrypoint is the name hosting runtimes look up when none is configured.
const DefaultEntrypoint = "lambda_handler"

type FunctionID = string

// FunctionDefinition binds a handler to the name a host invokes it by.
type FunctionDefinition struct {
	Name        string
	Description string
	Handler     invocation.Handler
}
