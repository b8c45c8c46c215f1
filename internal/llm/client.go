package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client calls the OpenAI chat completions API. It is stateless per
// request and safe for concurrent use by independent pipelines.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	stats      *Stats
}

// NewClient creates a client. requestsPerSecond <= 0 disables the
// client-side limiter.
func NewClient(apiKey string, requestsPerSecond float64) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
	if requestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return c
}

// Stats returns the rolling latency statistics for this client.
func (c *Client) Stats() *Stats { return c.stats }

// StructuredRequest is a completion constrained to a JSON schema.
type StructuredRequest struct {
	Model       string
	System      string
	User        string
	SchemaName  string
	Schema      json.RawMessage
	Temperature float64
}

// TextRequest is a free-text completion with a token cap.
type TextRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CompleteStructured issues a schema-constrained completion and decodes
// the result into out.
func (c *Client) CompleteStructured(ctx context.Context, req StructuredRequest, out any) error {
	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   req.SchemaName,
				Strict: true,
				Schema: req.Schema,
			},
		},
	}

	text, err := c.complete(ctx, body)
	if err != nil {
		return err
	}

	text = stripCodeBlock(text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &ServiceError{Message: fmt.Sprintf("parse structured response: %s (raw: %s)", err, truncate(text, 200))}
	}
	return nil
}

// Complete issues a free-text completion.
func (c *Client) Complete(ctx context.Context, req TextRequest) (string, error) {
	body := chatRequest{
		Model: req.Model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	return c.complete(ctx, body)
}

func (c *Client) complete(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("marshal request: %s", err)}
	}

	var lastErr error
	for attempt := range MaxRetries {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", &ServiceError{Message: err.Error()}
			}
		}

		start := time.Now()
		text, err := c.doOnce(ctx, payload)
		c.stats.Record(time.Since(start).Milliseconds())
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", &ServiceError{Message: ctx.Err().Error()}
		}
	}
	return "", lastErr
}

func (c *Client) doOnce(ctx context.Context, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("create request: %s", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("read response: %s", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &RateLimitError{Message: string(respBody)}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &AuthError{Message: string(respBody)}
	case resp.StatusCode != http.StatusOK:
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &ServiceError{Message: fmt.Sprintf("decode response: %s", err)}
	}
	if apiResp.Error != nil {
		return "", &ServiceError{Message: fmt.Sprintf("%s: %s", apiResp.Error.Type, apiResp.Error.Message)}
	}
	if len(apiResp.Choices) == 0 {
		return "", &ServiceError{Message: "empty response from model"}
	}

	return apiResp.Choices[0].Message.Content, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripCodeBlock unwraps a fenced code block if the model added one.
func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
