package invocation

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eventual-Inc/pdfagent/pkg/value"
)

var errBoom = errors.New("boom")

// router mimics a small path-dispatching handler.
func router(ctx context.Context, req Request) (Response, error) {
	switch req.String("path") {
	case "/ping":
		return Response{"statusCode": value.Int(200), "body": value.String("pong")}, nil
	case "/boom":
		return nil, errBoom
	case "/panic":
		panic("kaboom")
	case "/handle":
		return Response{"statusCode": value.Int(200), "body": value.Of(make(chan struct{}))}, nil
	case "/nan":
		return Response{"statusCode": value.Int(200), "body": value.Number(math.NaN())}, nil
	case "/nil":
		return nil, nil
	default:
		return Response{"statusCode": value.Int(404), "body": value.String("not found")}, nil
	}
}

func newAdapter(t *testing.T, h Handler) *Adapter {
	t.Helper()
	a, err := New(Config{Name: "lambda_handler", Handler: h})
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	_, err := New(Config{Name: "lambda_handler"})
	assert.ErrorIs(t, err, ErrHandlerNil)

	a, err := New(Config{Name: "lambda_handler", Handler: HandlerFunc(router)})
	require.NoError(t, err)
	assert.Equal(t, "lambda_handler", a.Name())
	assert.Equal(t, Idle, a.State())
}

func TestHandle(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	tests := []struct {
		name      string
		path      string
		wantBody  string
		wantType  string
		wantCause error
	}{
		{name: "ping", path: "/ping", wantBody: "pong"},
		{name: "handler error", path: "/boom", wantType: "HandlerError", wantCause: errBoom},
		{name: "handler panic", path: "/panic", wantType: "HandlerError"},
		{name: "raw resource handle", path: "/handle", wantType: "SerializationError"},
		{name: "nan number", path: "/nan", wantType: "SerializationError"},
		{name: "nil response", path: "/nil", wantType: "SerializationError", wantCause: ErrNilResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := a.Handle(context.Background(), Request{"path": value.String(tc.path)})

			if tc.wantType == "" {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, tc.wantBody, resp.String("body"))
				return
			}

			// exactly one of response or error
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Equal(t, tc.wantType, ErrorType(err))
			if tc.wantCause != nil {
				assert.ErrorIs(t, err, tc.wantCause)
			}
		})
	}
}

func TestHandleReturnsResponseUnchanged(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	resp, err := a.Handle(context.Background(), Request{"path": value.String("/ping")})
	require.NoError(t, err)

	want := Response{"statusCode": value.Int(200), "body": value.String("pong")}
	assert.True(t, value.EqualMaps(want, resp), "got %v", resp)
}

func TestHandlerPanicCarriesCause(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	_, err := a.Handle(context.Background(), Request{"path": value.String("/panic")})

	var he *HandlerError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "lambda_handler", he.Function)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestSerializationErrorNamesOffendingValue(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	_, err := a.Handle(context.Background(), Request{"path": value.String("/handle")})

	var unsupported *value.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "$.body", unsupported.Path)
}

func TestSelfReferencingResponseIsASerializationError(t *testing.T) {
	a := newAdapter(t, HandlerFunc(func(ctx context.Context, req Request) (Response, error) {
		m := Response{"statusCode": value.Int(200)}
		m["self"] = value.Object(m)
		return m, nil
	}))

	resp, err := a.Handle(context.Background(), Request{"path": value.String("/ping")})
	assert.Nil(t, resp)
	assert.Equal(t, "SerializationError", ErrorType(err))

	var unsupported *value.UnsupportedValueError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "$.self", unsupported.Path)
	assert.Equal(t, Idle, a.State())
}

func TestSelfReferencingRequestIsCloned(t *testing.T) {
	a := newAdapter(t, HandlerFunc(func(ctx context.Context, req Request) (Response, error) {
		req["path"] = value.String("/mutated")
		return Response{"statusCode": value.Int(200), "body": value.String(req.Map("self").String("path"))}, nil
	}))

	req := Request{"path": value.String("/ping")}
	req["self"] = value.Object(req)

	resp, err := a.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "/mutated", resp.String("body"))
	assert.Equal(t, "/ping", req.String("path"))
}

func TestHandleIsStateless(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))
	req := Request{"path": value.String("/ping")}

	first, err := a.Handle(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, value.EqualMaps(first, second))
}

func TestHandlerCannotMutateRequest(t *testing.T) {
	a := newAdapter(t, HandlerFunc(func(ctx context.Context, req Request) (Response, error) {
		req["path"] = value.String("/mutated")
		req.Map("headers")["x"] = value.String("y")
		return Response{"statusCode": value.Int(200)}, nil
	}))

	req := Request{"path": value.String("/ping"), "headers": value.Object(value.Map{})}
	_, err := a.Handle(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "/ping", req.String("path"))
	assert.Empty(t, req.Map("headers"))
}

func TestHandleJSON(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	tests := []struct {
		name     string
		payload  string
		want     string
		wantType string
	}{
		{name: "ping", payload: `{"path":"/ping"}`, want: `{"statusCode":200,"body":"pong"}`},
		{name: "not json", payload: `{"path":`, wantType: "DeserializationError"},
		{name: "not an object", payload: `["/ping"]`, wantType: "DeserializationError"},
		{name: "empty", payload: ``, wantType: "DeserializationError"},
		{name: "handler error", payload: `{"path":"/boom"}`, wantType: "HandlerError"},
		{name: "unencodable", payload: `{"path":"/handle"}`, wantType: "SerializationError"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := a.HandleJSON(context.Background(), []byte(tc.payload))
			if tc.wantType != "" {
				require.Error(t, err)
				assert.Nil(t, out)
				assert.Equal(t, tc.wantType, ErrorType(err))
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(out))

			// the encoded response decodes again
			_, err = value.UnmarshalMap(out)
			assert.NoError(t, err)
		})
	}
}

func TestDeserializationErrorSkipsHandler(t *testing.T) {
	called := false
	a := newAdapter(t, HandlerFunc(func(ctx context.Context, req Request) (Response, error) {
		called = true
		return Response{}, nil
	}))

	_, err := a.HandleJSON(context.Background(), []byte(`nope`))
	assert.ErrorIs(t, err, value.ErrNotObject)
	assert.False(t, called)
}

func TestState(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	a := newAdapter(t, HandlerFunc(func(ctx context.Context, req Request) (Response, error) {
		close(entered)
		<-release
		return Response{"statusCode": value.Int(200)}, nil
	}))

	done := make(chan error)
	go func() {
		_, err := a.Handle(context.Background(), Request{})
		done <- err
	}()

	<-entered
	assert.Equal(t, Handling, a.State())
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, a.State())
}

func TestStateReturnsToIdleAfterFailure(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	_, err := a.Handle(context.Background(), Request{"path": value.String("/panic")})
	require.Error(t, err)
	assert.Equal(t, Idle, a.State())

	// still usable afterwards
	resp, err := a.Handle(context.Background(), Request{"path": value.String("/ping")})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.String("body"))
}

func TestConcurrentInvocations(t *testing.T) {
	a := newAdapter(t, HandlerFunc(router))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := a.Handle(context.Background(), Request{"path": value.String("/ping")})
			if err == nil && resp.String("body") != "pong" {
				err = errors.New("unexpected body")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, Idle, a.State())
}
