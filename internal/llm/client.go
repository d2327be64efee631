// Package llm wraps the Gemini API behind narrow session interfaces. The
// model is treated as opaque text-in/text-out: a session accumulates its own
// history server-side and Send blocks until the full reply is available.
package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"FouserBot/internal/prompt"
)

const defaultModel = "gemini-2.5-flash"

// Session is one stateful model conversation.
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// Client creates model sessions.
type Client interface {
	NewSession(ctx context.Context) (Session, error)
}

// GeminiClient implements Client over the Gemini API with the master
// system instruction attached to every session.
type GeminiClient struct {
	client *genai.Client
	model  string
	system *genai.Content
}

// NewGeminiClient configures the Gemini API client. A missing API key is a
// configuration error; the caller is expected to refuse to start.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("llm: Gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		system: genai.NewContentFromText(prompt.MasterSystemInstruction, genai.RoleUser),
	}, nil
}

// NewSession opens a fresh chat with empty history.
func (g *GeminiClient) NewSession(ctx context.Context) (Session, error) {
	chat, err := g.client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: g.system,
		Temperature:       genai.Ptr[float32](0.7),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("llm: failed to create chat session: %w", err)
	}
	return &geminiSession{chat: chat}, nil
}

type geminiSession struct {
	chat *genai.Chat
}

func (s *geminiSession) Send(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("llm: chat send failed: %w", err)
	}
	reply := resp.Text()
	if reply == "" {
		return "", errors.New("llm: model returned an empty reply")
	}
	return reply, nil
}
