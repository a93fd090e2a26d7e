package agent

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/HendryAvila/byebyeanxiety/internal/store"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GenAIConfig configures the Gemini client.
type GenAIConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// GenAI is an LLM backed by the Gemini API.
type GenAI struct {
	client *genai.Client
	cfg    GenAIConfig
}

// NewGenAI creates a Gemini client using the API-key backend.
func NewGenAI(ctx context.Context, cfg GenAIConfig) (*GenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("agent: gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.9
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 8192
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("agent: create genai client: %w", err)
	}
	return &GenAI{client: client, cfg: cfg}, nil
}

// Model returns the configured model name.
func (g *GenAI) Model() string {
	return g.cfg.Model
}

// Generate implements LLM.
func (g *GenAI) Generate(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, t := range req.History {
		role := genai.Role(genai.RoleUser)
		if t.Role == store.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))

	temp := g.cfg.Temperature
	topP := g.cfg.TopP
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: g.cfg.MaxOutputTokens,
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("agent: generate content: %w", err)
	}
	text := res.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
