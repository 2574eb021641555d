package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"latexme/internal/llm"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	models llm.Models
	gen    contentGenerator
}

// NewClient constructs a Gemini client for the given API key.
func NewClient(ctx context.Context, apiKey string, models llm.Models) (*Client, error) {
	if err := llm.RequireKey("gemini", "GEMINI_API_KEY", apiKey); err != nil {
		return nil, err
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newClient(gc.Models, models), nil
}

func newClient(gen contentGenerator, models llm.Models) *Client {
	return &Client{models: models, gen: gen}
}

// Generate sends prompt to the model for variant and returns the text reply.
func (c *Client) Generate(ctx context.Context, prompt string, variant llm.Variant) (string, error) {
	model := c.models.For(variant)
	resp, err := c.gen.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperatureFor(variant)),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate %s: %w", model, err)
	}
	if resp == nil {
		return "", fmt.Errorf("gemini generate %s: nil response", model)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", fmt.Errorf("gemini generate %s: prompt blocked (%s)", model, fb.BlockReason)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini generate %s: empty response", model)
	}
	return text, nil
}

func temperatureFor(variant llm.Variant) float32 {
	if variant == llm.VariantAnswer {
		return 0.7
	}
	return 0.2
}

var _ llm.Client = (*Client)(nil)
