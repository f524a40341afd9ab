package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra"
)

const (
	DefaultModel     = "claude-3-5-haiku-20241022"
	DefaultMaxTokens = 1024
	apiVersion       = "2023-06-01"
)

type ClaudeClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
	maxTokens  int
	logger     *slog.Logger
}

func NewClaudeClient(apiKey, model string, maxTokens int, logger *slog.Logger) *ClaudeClient {
	return NewClaudeClientWithURL(apiKey, model, maxTokens, "https://api.anthropic.com/v1", logger)
}

func NewClaudeClientWithURL(apiKey, model string, maxTokens int, baseURL string, logger *slog.Logger) *ClaudeClient {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ClaudeClient{
		apiKey:     apiKey,
		httpClient: infra.NewHTTPClient(30 * time.Second),
		baseURL:    baseURL,
		model:      model,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
	System    string    `json:"system"`
}

type response struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Plan sends one completion request and parses the first text block as the
// action list. A failed call or a malformed reply is not retried.
func (c *ClaudeClient) Plan(ctx context.Context, order, devices string) ([]application.PlannedAction, error) {
	reqBody := request{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []message{
			{Role: "user", Content: order},
		},
		System: application.BuildPlannerPrompt(devices),
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Info("asking claude to parse order", "model", c.model, "order", order)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling claude API: %w", domain.ErrExternalCall, err)
	}
	defer resp.Body.Close()

	if err := infra.CheckResponse("claude", resp); err != nil {
		return nil, err
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding claude response: %w", domain.ErrPlannerParse, err)
	}

	if len(result.Content) == 0 {
		return nil, fmt.Errorf("%w: no content in claude response", domain.ErrPlannerParse)
	}

	text := result.Content[0].Text
	c.logger.Debug("claude response", "text", text)

	actions, err := application.DecodeActions(text)
	if err != nil {
		return nil, fmt.Errorf("%w (reply: %s)", err, text)
	}
	return actions, nil
}
