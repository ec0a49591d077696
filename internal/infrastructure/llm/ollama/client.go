package ollama

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/legal-doc-simplifier/internal/core/domain"
	"github.com/kirillkom/legal-doc-simplifier/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	breaker    *resilience.ProviderBreaker
}

func New(baseURL, model string, timeout time.Duration, breaker *resilience.ProviderBreaker) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if breaker == nil {
		breaker = resilience.NewProviderBreaker("ollama", resilience.DefaultPolicy(), nil)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
	}
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements ports.TextGenerator with one non-streaming /api/generate call.
func (c *Client) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	model := params.Model
	if model == "" {
		model = c.model
	}
	maxTokens := params.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = domain.MaxOutputTokens
	}

	reqBody := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: domain.ClampTemperature(params.Temperature),
			NumPredict:  maxTokens,
		},
	}

	var response generateResponse
	err := c.breaker.Call(ctx, func(callCtx context.Context) error {
		return wrapDomainKind("ollama generate", c.postJSON(callCtx, "/api/generate", reqBody, &response, "generate"))
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(response.Response)
	if text == "" {
		return "", domain.WrapError(domain.ErrMalformedResponse, "ollama generate", errors.New("empty response text"))
	}
	return text, nil
}
