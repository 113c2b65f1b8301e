// Package agent runs a Gemini chat that may call local tools before it
// answers.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSystemPrompt  = "You are a helpful assistant."
	DefaultMaxIterations = 10

	// MaxIterationsMessage is returned as the answer when the model keeps
	// requesting tools past the iteration budget.
	MaxIterationsMessage = "Max iterations reached"
)

var (
	ErrNotConfigured = errors.New("gemini client not configured: GEMINI_API_KEY is not set")
	ErrNoCandidates  = errors.New("model returned no candidates")
)

// Session is one chat conversation. *genai.ChatSession satisfies it.
type Session interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// SessionFactory starts a chat with the given system instruction and tools.
type SessionFactory func(systemPrompt string, tools []*genai.Tool) Session

// ToolFunc executes a tool call with the model-supplied arguments.
type ToolFunc func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Tool is a function the model may call.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Call        ToolFunc
}

type Config struct {
	// NewSession is nil when no model is configured; Run then fails with
	// ErrNotConfigured.
	NewSession SessionFactory
	Tools      []Tool
	Log        *logrus.Entry
}

type Agent struct {
	newSession SessionFactory
	tools      map[string]Tool
	decls      []*genai.Tool
	log        *logrus.Entry
}

func New(config Config) *Agent {
	a := &Agent{
		newSession: config.NewSession,
		tools:      make(map[string]Tool, len(config.Tools)),
		log:        config.Log,
	}
	if a.log == nil {
		a.log = logrus.NewEntry(logrus.StandardLogger())
	}
	var fds []*genai.FunctionDeclaration
	for _, tool := range config.Tools {
		a.tools[tool.Declaration.Name] = tool
		fds = append(fds, tool.Declaration)
	}
	if len(fds) > 0 {
		a.decls = []*genai.Tool{{FunctionDeclarations: fds}}
	}
	return a
}

// Configured reports whether a model is available.
func (a *Agent) Configured() bool { return a.newSession != nil }

// Run sends userPrompt and serves tool calls until the model answers with
// text or maxIterations tool rounds have run.
func (a *Agent) Run(ctx context.Context, userPrompt, systemPrompt string, maxIterations int) (string, error) {
	if a.newSession == nil {
		return "", ErrNotConfigured
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	session := a.newSession(systemPrompt, a.decls)
	resp, err := session.SendMessage(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("sending prompt: %w", err)
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		calls, err := functionCalls(resp)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			return responseText(resp), nil
		}

		a.log.WithFields(logrus.Fields{"iteration": iteration, "calls": len(calls)}).Info("serving tool calls")
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: map[string]interface{}{"result": a.call(ctx, call)},
			})
		}

		resp, err = session.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("sending tool results: %w", err)
		}
	}

	if calls, err := functionCalls(resp); err == nil && len(calls) == 0 {
		return responseText(resp), nil
	}
	return MaxIterationsMessage, nil
}

func (a *Agent) call(ctx context.Context, call genai.FunctionCall) map[string]interface{} {
	log := a.log.WithFields(logrus.Fields{"tool": call.Name, "args": call.Args})
	tool, ok := a.tools[call.Name]
	if !ok {
		log.Warn("model requested an unknown tool")
		return map[string]interface{}{"error": fmt.Sprintf("unknown function %q", call.Name)}
	}
	result, err := tool.Call(ctx, call.Args)
	if err != nil {
		log.WithError(err).Warn("tool call failed")
		return map[string]interface{}{"error": err.Error()}
	}
	log.WithField("status", result["status"]).Info("tool call finished")
	return result
}

func functionCalls(resp *genai.GenerateContentResponse) ([]genai.FunctionCall, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return nil, nil
	}
	var calls []genai.FunctionCall
	for _, part := range content.Parts {
		switch v := part.(type) {
		case genai.FunctionCall:
			calls = append(calls, v)
		case *genai.FunctionCall:
			calls = append(calls, *v)
		}
	}
	return calls, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
