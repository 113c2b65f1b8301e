package app

import (
	"encoding/base64"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
	"github.com/Eventual-Inc/pdfagent/pkg/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// proxyRequest is the API-Gateway-proxy view of an invocation request.
type proxyRequest struct {
	Path    string
	Method  string
	Headers value.Map
	Body    string
}

func parseRequest(req invocation.Request) (*proxyRequest, error) {
	r := &proxyRequest{
		Path:    req.String("path"),
		Method:  strings.ToUpper(req.String("httpMethod")),
		Headers: req.Map("headers"),
		Body:    req.String("body"),
	}
	if encoded, _ := req["isBase64Encoded"].AsBool(); encoded && r.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(r.Body)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 body: %w", err)
		}
		r.Body = string(decoded)
	}
	return r, nil
}

// header looks name up case-insensitively.
func (r *proxyRequest) header(name string) string {
	if v, ok := r.Headers[name]; ok {
		s, _ := v.AsString()
		return s
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			s, _ := v.AsString()
			return s
		}
	}
	return ""
}

// jsonBody decodes the body into an object. A missing, malformed or empty
// object body yields ok=false.
func (r *proxyRequest) jsonBody() (map[string]interface{}, bool) {
	if strings.TrimSpace(r.Body) == "" {
		return nil, false
	}
	var data map[string]interface{}
	if err := json.UnmarshalFromString(r.Body, &data); err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func textResponse(status int, body string) invocation.Response {
	return invocation.Response{
		"statusCode": value.Int(status),
		"body":       value.String(body),
	}
}

func jsonResponse(status int, body interface{}) (invocation.Response, error) {
	encoded, err := json.MarshalToString(body)
	if err != nil {
		return nil, fmt.Errorf("encoding response body: %w", err)
	}
	return invocation.Response{
		"statusCode": value.Int(status),
		"headers":    value.Object(value.Map{"Content-Type": value.String("application/json")}),
		"body":       value.String(encoded),
	}, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
