package lambdahost

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambda/messages"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
	"github.com/Eventual-Inc/pdfagent/pkg/value"
)

func newHost(t *testing.T) *Host {
	t.Helper()
	a, err := invocation.New(invocation.Config{
		Name: "lambda_handler",
		Handler: invocation.HandlerFunc(func(ctx context.Context, req invocation.Request) (invocation.Response, error) {
			if req.String("path") == "/boom" {
				return nil, errors.New("boom")
			}
			return invocation.Response{"statusCode": value.Int(200), "body": value.String("pong")}, nil
		}),
	})
	require.NoError(t, err)
	return New(a, nil)
}

func TestHandleThroughRuntimeHandler(t *testing.T) {
	h := lambda.NewHandler(newHost(t).Handle)
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})

	out, err := h.Invoke(ctx, []byte(`{"path":"/ping"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"body":"pong"}`, string(out))
}

func TestHandleErrors(t *testing.T) {
	host := newHost(t)

	tests := []struct {
		name     string
		payload  string
		wantType string
	}{
		{name: "handler error", payload: `{"path":"/boom"}`, wantType: "HandlerError"},
		{name: "not an object", payload: `"ping"`, wantType: "DeserializationError"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := host.Handle(context.Background(), []byte(tc.payload))
			var ie messages.InvokeResponse_Error
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tc.wantType, ie.Type)
			assert.NotEmpty(t, ie.Message)
		})
	}
}
