// internal/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eligibility-engine/internal/common/logger"
	"eligibility-engine/internal/common/metrics"
)

var (
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
)

// Message is one turn of the generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds the generation service connection settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	MaxTokens  int
}

// Client calls the text generation service over HTTP. The service returns
// either {"text": ...} or {"content": ...}; both are accepted.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		// No HTTP client timeout - rely only on context
		client: &http.Client{},
		logger: log.With(map[string]interface{}{
			"component": "genai",
		}),
	}
}

// Generate submits the messages and returns the raw completion text.
func (c *Client) Generate(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	requestBody := map[string]interface{}{
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  c.config.MaxTokens,
	}
	body, _ := json.Marshal(requestBody)

	started := time.Now()
	text, err := c.post(ctx, body)
	metrics.GenerationCallDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrGenerationTimeout) {
			outcome = "timeout"
		}
		metrics.GenerationCallsTotal.WithLabelValues(outcome).Inc()
		return "", err
	}

	metrics.GenerationCallsTotal.WithLabelValues("success").Inc()
	return text, nil
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between attempts
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrGenerationTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/api/ai/generate", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", ErrGenerationTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrGenerationTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrGenerationFailed)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Text    string `json:"text"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}

	text := apiResponse.Text
	if text == "" {
		text = apiResponse.Content
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}

	c.logger.Info("generation completed", map[string]interface{}{
		"chars": len(text),
	})

	return text, nil
}
