package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
	"github.com/Eventual-Inc/pdfagent/pkg/value"
)

// proxyEvent turns a plain HTTP request into an API-Gateway-proxy event.
func proxyEvent(r *http.Request, requestID string, body []byte) invocation.Request {
	headers := value.Map{}
	for k, vs := range r.Header {
		headers[k] = value.String(strings.Join(vs, ","))
	}
	query := value.Map{}
	for k, vs := range r.URL.Query() {
		query[k] = value.String(vs[0])
	}

	ev := invocation.Request{
		"path":                  value.String(r.URL.Path),
		"httpMethod":            value.String(r.Method),
		"headers":               value.Object(headers),
		"queryStringParameters": value.Object(query),
		"requestContext":        value.Object(value.Map{"requestId": value.String(requestID)}),
		"isBase64Encoded":       value.Bool(false),
		"body":                  value.String(string(body)),
	}
	if !utf8.Valid(body) {
		ev["body"] = value.String(base64.StdEncoding.EncodeToString(body))
		ev["isBase64Encoded"] = value.Bool(true)
	}
	return ev
}

// writeProxyResponse renders a function response shaped as
// {statusCode, headers, body}. A missing or out of range statusCode means 200.
func writeProxyResponse(ctx *gin.Context, resp invocation.Response) error {
	status := http.StatusOK
	if n, ok := resp["statusCode"].AsInt(); ok && n >= 100 && n <= 599 {
		status = n
	}

	for k, v := range resp.Map("headers") {
		s, ok := v.AsString()
		if !ok {
			encoded, err := value.Marshal(v)
			if err != nil {
				return fmt.Errorf("header %q: %w", k, err)
			}
			s = string(encoded)
		}
		ctx.Header(k, s)
	}

	contentType := ctx.Writer.Header().Get("Content-Type")
	var data []byte
	body := resp["body"]
	switch body.Kind() {
	case value.KindNull:
	case value.KindString:
		s, _ := body.AsString()
		data = []byte(s)
		if b64, _ := resp["isBase64Encoded"].AsBool(); b64 {
			decoded, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return fmt.Errorf("decoding base64 body: %w", err)
			}
			data = decoded
		}
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}
	default:
		encoded, err := value.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding body: %w", err)
		}
		data = encoded
		if contentType == "" {
			contentType = "application/json"
		}
	}

	if data == nil {
		ctx.Status(status)
		return nil
	}
	ctx.Data(status, contentType, data)
	return nil
}
