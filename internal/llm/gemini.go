package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator is a thin wrapper around the official genai client that
// asks for application/json output under SystemPrompt.
type GeminiGenerator struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGeminiGenerator creates a client for the Gemini API. An empty apiKey
// lets the genai client read GOOGLE_API_KEY / GEMINI_API_KEY itself.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, temperature float32) (*GeminiGenerator, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{models: cli.Models, model: model, temperature: temperature}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini:" + g.model }

// Generate sends input to the model and returns the text of the first
// candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, input string) (string, error) {
	if err := checkInput(input); err != nil {
		return "", err
	}

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(UserPrompt(input), genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt(), genai.RoleUser),
			ResponseMIMEType:  "application/json",
			Temperature:       genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", g.Name(), err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", g.Name(), ErrNoContent)
	}
	return text, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
