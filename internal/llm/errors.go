package llm

import "fmt"

// RateLimitError indicates the provider rejected a call with 429. The HTTP
// layer maps it to its own 429; the pipeline never retries past the client.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s", truncate(e.Message, 200))
}

// AuthError indicates the provider rejected the API key.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", truncate(e.Message, 200))
}

// ServiceError covers every other provider failure, including transport
// errors and malformed responses.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("llm service error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
	}
	return fmt.Sprintf("llm service error: %s", truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
