// Package lambdahost runs an invocation adapter inside the AWS Lambda Go
// runtime.
package lambdahost

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambda/messages"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
)

type Host struct {
	adapter *invocation.Adapter
	log     *logrus.Entry
}

func New(adapter *invocation.Adapter, log *logrus.Entry) *Host {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Host{adapter: adapter, log: log.WithField("function", adapter.Name())}
}

// Handle passes the raw event through the adapter. Failures are reported
// with the adapter's error type so the runtime surfaces it as errorType.
func (h *Host) Handle(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	log := h.log
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.WithField("aws_request_id", lc.AwsRequestID)
	}

	out, err := h.adapter.HandleJSON(ctx, payload)
	if err != nil {
		log.WithError(err).Error("invocation failed")
		return nil, messages.InvokeResponse_Error{
			Message: err.Error(),
			Type:    invocation.ErrorType(err),
		}
	}
	log.Debug("invocation succeeded")
	return out, nil
}

// Start hands control to the Lambda runtime. It does not return.
func (h *Host) Start() {
	h.log.Info("starting lambda runtime")
	lambda.Start(h.Handle)
}
