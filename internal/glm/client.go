// Package glm talks to the Zhipu GLM chat-completions API and turns its
// loosely structured answers into typed intents and product lists. Every
// entry point degrades to deterministic extraction when the model is
// unreachable or answers garbage.
package glm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ArchiTec-IA-Solution/architec-backend/internal/metrics"
)

const defaultBaseURL = "https://open.bigmodel.cn/api/paas/v4/chat/completions"

// Client is a minimal Zhipu chat-completions client. Requests carry a low
// temperature because answers must be machine-parseable JSON, not prose.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewClient builds a Zhipu client. An empty apiKey returns nil; callers treat
// a nil client as "model unavailable" and use their fallback path.
func NewClient(apiKey, model string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		metrics:    m,
		logger:     logger.With("component", "glm"),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one user prompt and returns the raw assistant text. No
// retries: a chat turn is latency-bound and the caller has a local fallback.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode glm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build glm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.GLMRequests.WithLabelValues("transport_error").Inc()
		return "", fmt.Errorf("glm request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.GLMLatency.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.GLMRequests.WithLabelValues("http_error").Inc()
		return "", fmt.Errorf("glm status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.metrics.GLMRequests.WithLabelValues("decode_error").Inc()
		return "", fmt.Errorf("decode glm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		c.metrics.GLMRequests.WithLabelValues("empty").Inc()
		return "", fmt.Errorf("glm returned no choices")
	}

	c.metrics.GLMRequests.WithLabelValues("ok").Inc()
	return parsed.Choices[0].Message.Content, nil
}
