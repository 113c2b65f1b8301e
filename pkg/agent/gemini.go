package agent

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// NewGeminiClient creates a Gemini API client for apiKey.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// GeminiSessions starts chats against modelName on client.
func GeminiSessions(client *genai.Client, modelName string) SessionFactory {
	if modelName == "" {
		modelName = DefaultModel
	}
	return func(systemPrompt string, tools []*genai.Tool) Session {
		model := client.GenerativeModel(modelName)
		model.Tools = tools
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
		return model.StartChat()
	}
}
