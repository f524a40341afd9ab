package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra"
)

const DefaultModel = "gemini-2.0-flash"

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
	maxTokens  int
	logger     *slog.Logger
}

func NewClient(apiKey, model string, maxTokens int, logger *slog.Logger) *Client {
	return NewClientWithURL(apiKey, model, maxTokens, "https://generativelanguage.googleapis.com/v1beta", logger)
}

func NewClientWithURL(apiKey, model string, maxTokens int, baseURL string, logger *slog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: infra.NewHTTPClient(30 * time.Second),
		baseURL:    baseURL,
		model:      model,
		maxTokens:  maxTokens,
		logger:     logger,
	}
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text string `json:"text"`
}

type request struct {
	Contents         []content        `json:"contents"`
	SystemInstruct   *content         `json:"systemInstruction,omitempty"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type response struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Plan is the Gemini counterpart of the Claude planner: same instruction,
// same strict decoding of the first text part.
func (c *Client) Plan(ctx context.Context, order, devices string) ([]application.PlannedAction, error) {
	reqBody := request{
		SystemInstruct: &content{
			Parts: []part{{Text: application.BuildPlannerPrompt(devices)}},
		},
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: order}},
			},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: c.maxTokens,
			Temperature:     0.1,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Info("asking gemini to parse order", "model", c.model, "order", order)

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling gemini API: %w", domain.ErrExternalCall, err)
	}
	defer resp.Body.Close()

	if err := infra.CheckResponse("gemini", resp); err != nil {
		return nil, err
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding gemini response: %w", domain.ErrPlannerParse, err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("%w: gemini error: %s", domain.ErrExternalCall, result.Error.Message)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty response from gemini", domain.ErrPlannerParse)
	}

	text := result.Candidates[0].Content.Parts[0].Text
	c.logger.Debug("gemini response", "text", text)

	actions, err := application.DecodeActions(text)
	if err != nil {
		return nil, fmt.Errorf("%w (reply: %s)", err, text)
	}
	return actions, nil
}
