package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"HeadlineScorer/internal/config"
	"HeadlineScorer/internal/domain"
	"HeadlineScorer/internal/ports"
)

const (
	completionsPath    = "/chat/completions"
	defaultTemperature = 0.3
	defaultMaxTokens   = 500
	errorBodyLimit     = 1024
)

// ChatGPTClient implements ports.ChatClient backed by OpenAI-compatible APIs
// such as OpenRouter.
type ChatGPTClient struct {
	endpoint    string
	model       string
	apiKey      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

var _ ports.ChatClient = (*ChatGPTClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewChatGPTClient builds a client from configuration. A missing API key is a
// configuration error, reported before any request is made.
func NewChatGPTClient(cfg config.LLMConfig) (*ChatGPTClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.ConfigError{Field: "llm.apiKey", Reason: "semantic scoring requires an API key"}
	}
	if cfg.BaseURL == "" || cfg.Model == "" {
		return nil, &domain.ConfigError{Field: "llm", Reason: "base URL and model are required"}
	}

	temperature := defaultTemperature
	if cfg.Temperature != nil {
		if *cfg.Temperature < 0 {
			return nil, &domain.ConfigError{Field: "llm.temperature", Reason: "must not be negative"}
		}
		temperature = *cfg.Temperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &ChatGPTClient{
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + completionsPath,
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}, nil
}

// Model names the model requests are sent to.
func (c *ChatGPTClient) Model() string {
	return c.model
}

// Complete posts the prompt as a single user message and returns the first
// choice's content.
func (c *ChatGPTClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.NetworkError{Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", &domain.TransportError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if isTimeout(err) {
			return "", &domain.NetworkError{Timeout: true, Err: err}
		}
		return "", &domain.ParseError{Reason: "decode completion", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &domain.ParseError{Reason: "completion has no choices"}
	}

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
