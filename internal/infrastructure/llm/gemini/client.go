package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/resilience"
)

const DefaultModel = "gemini-1.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models  contentGenerator
	model   string
	breaker *resilience.ProviderBreaker
}

// New creates a Gemini API client authenticated with apiKey.
func New(ctx context.Context, apiKey, model string, timeout time.Duration, breaker *resilience.ProviderBreaker) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newWithModels(client.Models, model, breaker), nil
}

func newWithModels(models contentGenerator, model string, breaker *resilience.ProviderBreaker) *Client {
	if model == "" {
		model = DefaultModel
	}
	if breaker == nil {
		breaker = resilience.NewProviderBreaker("gemini", resilience.DefaultPolicy(), nil)
	}
	return &Client{
		models:  models,
		model:   model,
		breaker: breaker,
	}
}

// Generate implements ports.TextGenerator with a single GenerateContent call.
func (c *Client) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}
	maxTokens := params.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = domain.MaxOutputTokens
	}
	temperature := float32(domain.ClampTemperature(params.Temperature))

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(maxTokens),
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	var res *genai.GenerateContentResponse
	err := c.breaker.Call(ctx, func(callCtx context.Context) error {
		var callErr error
		res, callErr = c.models.GenerateContent(callCtx, model, contents, cfg)
		return wrapDomainKind("gemini generate content", callErr)
	})
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", domain.WrapError(domain.ErrMalformedResponse, "gemini generate content", errors.New("nil response"))
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", domain.WrapError(domain.ErrMalformedResponse, "gemini generate content", emptyResponseReason(res))
	}
	return text, nil
}

func emptyResponseReason(res *genai.GenerateContentResponse) error {
	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		return fmt.Errorf("prompt blocked: %s", res.PromptFeedback.BlockReason)
	}
	if len(res.Candidates) > 0 && res.Candidates[0].FinishReason != "" {
		return fmt.Errorf("empty text, finish reason %s", res.Candidates[0].FinishReason)
	}
	return errors.New("empty response text")
}
