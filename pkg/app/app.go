// Package app is the lambda_handler entrypoint: a small router over
// API-Gateway-proxy shaped requests that serves the PDF parsing API.
package app

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"

	"github.com/Eventual-Inc/pdfagent/pkg/agent"
	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
)

// Runner runs one agent conversation. *agent.Agent satisfies it.
type Runner interface {
	Run(ctx context.Context, userPrompt, systemPrompt string, maxIterations int) (string, error)
}

type Config struct {
	// APIKey guards the /api routes. When empty every authenticated request
	// is rejected.
	APIKey string

	Agent  Runner
	Parser agent.PDFParser

	// MaxIterations is used when a request does not set max_iterations.
	MaxIterations int

	Now func() time.Time
	Log *logrus.Entry
}

// Route describes one endpoint.
type Route struct {
	Path        string
	Method      string
	Auth        bool
	Description string

	handle func(ctx context.Context, r *proxyRequest) (invocation.Response, error)
}

type App struct {
	apiKey        string
	agent         Runner
	parser        agent.PDFParser
	maxIterations int
	now           func() time.Time
	log           *logrus.Entry
	routes        []Route
}

func New(config Config) *App {
	a := &App{
		apiKey:        config.APIKey,
		agent:         config.Agent,
		parser:        config.Parser,
		maxIterations: config.MaxIterations,
		now:           config.Now,
		log:           config.Log,
	}
	if a.maxIterations <= 0 {
		a.maxIterations = agent.DefaultMaxIterations
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.log == nil {
		a.log = logrus.NewEntry(logrus.StandardLogger())
	}
	a.routes = []Route{
		{Path: "/ping", Description: "Liveness probe", handle: a.ping},
		{Path: "/health", Method: http.MethodGet, Description: "Health check", handle: a.health},
		{Path: "/", Method: http.MethodGet, Description: "API index", handle: a.index},
		{Path: "/api/parse-pdf", Method: http.MethodPost, Auth: true, Description: "Parse PDF with Gemini agent", handle: a.parsePDF},
		{Path: "/api/parse-pdf-direct", Method: http.MethodPost, Auth: true, Description: "Direct PDF parsing", handle: a.parsePDFDirect},
	}
	return a
}

// Routes lists the served endpoints in dispatch order.
func (a *App) Routes() []Route {
	out := make([]Route, len(a.routes))
	copy(out, a.routes)
	return out
}

// Invoke implements invocation.Handler.
func (a *App) Invoke(ctx context.Context, req invocation.Request) (invocation.Response, error) {
	r, err := parseRequest(req)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	log := a.log.WithFields(logrus.Fields{"path": r.Path, "method": r.Method})

	route := a.match(r.Path)
	if route == nil {
		log.Debug("no route")
		return jsonResponse(http.StatusNotFound, errorBody{Error: "Not found"})
	}
	if route.Method != "" && r.Method != "" && r.Method != route.Method {
		return jsonResponse(http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	}
	if route.Auth {
		if status, body, ok := a.authenticate(r); !ok {
			log.WithField("status", status).Warn("request rejected by api key check")
			return jsonResponse(status, body)
		}
	}

	resp, err := route.handle(ctx, r)
	if err == nil {
		status, _ := resp["statusCode"].AsInt()
		log.WithField("status", status).Info("handled request")
	}
	return resp, err
}

func (a *App) match(path string) *Route {
	for i := range a.routes {
		if a.routes[i].Path == path {
			return &a.routes[i]
		}
	}
	return nil
}

func (a *App) authenticate(r *proxyRequest) (int, errorBody, bool) {
	header := r.header("Authorization")
	if header == "" {
		return http.StatusUnauthorized, errorBody{
			Error:   "Missing API key",
			Message: "Please provide an API key in the Authorization header",
		}, false
	}
	provided := strings.TrimPrefix(header, "Bearer ")
	if a.apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(a.apiKey)) != 1 {
		return http.StatusForbidden, errorBody{
			Error:   "Invalid API key",
			Message: "The provided API key is not valid",
		}, false
	}
	return http.StatusOK, errorBody{}, true
}

func (a *App) ping(ctx context.Context, r *proxyRequest) (invocation.Response, error) {
	return textResponse(http.StatusOK, "pong"), nil
}

func (a *App) health(ctx context.Context, r *proxyRequest) (invocation.Response, error) {
	return jsonResponse(http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *App) index(ctx context.Context, r *proxyRequest) (invocation.Response, error) {
	endpoints := map[string]string{}
	for _, route := range a.routes {
		if route.Path != "/" && route.Path != "/ping" {
			endpoints[route.Path] = route.Description
		}
	}
	return jsonResponse(http.StatusOK, map[string]interface{}{
		"message":        "PDF Parser API",
		"endpoints":      endpoints,
		"authentication": "Required - Use Authorization header with API key",
	})
}

type parsePDFResponse struct {
	Status         string       `json:"status"`
	RawResponse    string       `json:"raw_response"`
	ParsedResponse agent.Parsed `json:"parsed_response"`
}

type failureBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (a *App) parsePDF(ctx context.Context, r *proxyRequest) (invocation.Response, error) {
	data, ok := r.jsonBody()
	if !ok {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "No JSON data provided"})
	}
	userPrompt, _ := data["user_prompt"].(string)
	if userPrompt == "" {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "user_prompt is required"})
	}
	systemPrompt, _ := data["system_prompt"].(string)
	maxIterations := a.maxIterations
	if n, ok := data["max_iterations"].(float64); ok && n >= 1 {
		maxIterations = int(n)
	}

	if a.agent == nil {
		return a.agentFailure(agent.ErrNotConfigured)
	}
	raw, err := a.agent.Run(ctx, userPrompt, systemPrompt, maxIterations)
	if err != nil {
		return a.agentFailure(err)
	}
	return jsonResponse(http.StatusOK, parsePDFResponse{
		Status:         "success",
		RawResponse:    raw,
		ParsedResponse: agent.ParseResponse(raw, a.now()),
	})
}

func (a *App) agentFailure(err error) (invocation.Response, error) {
	a.log.WithError(err).Error("agent run failed")
	return jsonResponse(http.StatusInternalServerError, failureBody{
		Status:  "error",
		Message: err.Error(),
		Type:    errorKind(err),
	})
}

func (a *App) parsePDFDirect(ctx context.Context, r *proxyRequest) (invocation.Response, error) {
	data, ok := r.jsonBody()
	if !ok {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "No JSON data provided"})
	}
	pdfURL, _ := data["pdf_url"].(string)
	if pdfURL == "" {
		return jsonResponse(http.StatusBadRequest, errorBody{Error: "pdf_url is required"})
	}
	writeImages, _ := data["write_images"].(bool)

	if a.parser == nil {
		return jsonResponse(http.StatusInternalServerError, failureBody{Status: "error", Message: "pdf parser not configured"})
	}
	return jsonResponse(http.StatusOK, a.parser.Parse(ctx, pdfURL, writeImages))
}

// errorKind names the class of an agent failure for the "type" field.
func errorKind(err error) string {
	var blocked *genai.BlockedError
	switch {
	case errors.Is(err, agent.ErrNotConfigured):
		return "ConfigurationError"
	case errors.Is(err, agent.ErrNoCandidates), errors.As(err, &blocked):
		return "BlockedError"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "TimeoutError"
	default:
		return "AgentError"
	}
}
