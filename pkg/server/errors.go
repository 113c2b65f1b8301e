package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
	"github.com/Eventual-Inc/pdfagent/pkg/server/model"
)

// FunctionErrorHeader marks a response that carries a function error
// instead of a function result.
const FunctionErrorHeader = "X-Amz-Function-Error"

// NewError aborts the request with a JSON error body.
func NewError(ctx *gin.Context, status int, err error) {
	ctx.AbortWithStatusJSON(status, HTTPError{Code: status, Message: err.Error()})
}

// HTTPError is the body of transport level failures.
type HTTPError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"status bad request"`
}

// NewInvocationError aborts the request with the function error envelope.
// Deserialization failures are the caller's fault; everything else is 500.
func NewInvocationError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := invocation.ErrorType(err)
	if kind == "DeserializationError" {
		status = http.StatusBadRequest
	}
	ctx.Header(FunctionErrorHeader, "Unhandled")
	ctx.AbortWithStatusJSON(status, model.InvocationError{ErrorType: kind, ErrorMessage: err.Error()})
}
