// Package invocation adapts a user-supplied handler to a hosting runtime: one
// structured request in, exactly one structured response or one error out.
package invocation

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/Eventual-Inc/pdfagent/pkg/logging/timing"
	"github.com/Eventual-Inc/pdfagent/pkg/value"
)

// Request is the payload sent by the caller for one invocation.
type Request = value.Map

// Response is the payload produced by a handler for one invocation.
type Response = value.Map

// Handler is the user logic behind an entrypoint.
type Handler interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// HandlerFunc allows ordinary functions to be used as handlers.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Invoke calls f(ctx, req).
func (f HandlerFunc) Invoke(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// State is the adapter lifecycle state.
type State int

const (
	Idle State = iota
	Handling
)

func (s State) String() string {
	if s == Handling {
		return "Handling"
	}
	return "Idle"
}

// Config controls adapter construction.
type Config struct {
	// Name is the entrypoint name used in logs and errors.
	Name string

	// Handler is the user logic. Required.
	Handler Handler

	// Log defaults to the logrus standard logger.
	Log *logrus.Entry
}

// Adapter dispatches invocations to a handler. It holds no per-request state
// and is safe for concurrent use.
type Adapter struct {
	name     string
	handler  Handler
	log      *logrus.Entry
	inflight int64
}

// New builds an Adapter from config.
func New(config Config) (*Adapter, error) {
	if config.Handler == nil {
		return nil, ErrHandlerNil
	}
	log := config.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Adapter{
		name:    config.Name,
		handler: config.Handler,
		log:     log.WithField("function", config.Name),
	}, nil
}

// Name returns the entrypoint name.
func (a *Adapter) Name() string { return a.name }

// State reports Handling while at least one invocation is in flight.
func (a *Adapter) State() State {
	if atomic.LoadInt64(&a.inflight) > 0 {
		return Handling
	}
	return Idle
}

// Handle runs the handler once for req. The handler receives a deep copy of
// req. On success the returned response is exactly what the handler
// produced, and it is guaranteed to encode.
func (a *Adapter) Handle(ctx context.Context, req Request) (Response, error) {
	resp, _, err := a.handle(ctx, req)
	return resp, err
}

// HandleJSON decodes payload, runs the handler and returns the encoded
// response.
func (a *Adapter) HandleJSON(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := value.UnmarshalMap(payload)
	if err != nil {
		a.log.WithError(err).Warn("rejected invocation payload")
		return nil, &DeserializationError{Err: err}
	}
	_, encoded, err := a.handle(ctx, req)
	return encoded, err
}

func (a *Adapter) handle(ctx context.Context, req Request) (Response, []byte, error) {
	atomic.AddInt64(&a.inflight, 1)
	defer atomic.AddInt64(&a.inflight, -1)
	defer timing.Timeit(a.log, "invoke")()

	resp, err := a.call(ctx, req.Clone())
	if err != nil {
		a.log.WithError(err).Error("handler failed")
		return nil, nil, &HandlerError{Function: a.name, Err: err}
	}

	encoded, err := value.MarshalMap(resp)
	if resp == nil {
		err = ErrNilResponse
	}
	if err != nil {
		a.log.WithError(err).Error("handler response cannot be encoded")
		return nil, nil, &SerializationError{Function: a.name, Err: err}
	}
	return resp, encoded, nil
}

func (a *Adapter) call(ctx context.Context, req Request) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return a.handler.Invoke(ctx, req)
}

func (a *Adapter) String() string { return fmt.Sprintf("adapter(%s)", a.name) }
