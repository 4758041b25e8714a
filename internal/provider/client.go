// Package provider implements the LLM provider chain: individual HTTP
// clients, per-provider rate limiting, response caching, and the fallback
// manager that walks the chain in priority order.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/infohub-br/promoagent/internal/common"
)

// Client generates text for a prompt against one upstream API.
type Client interface {
	// Name returns the provider identifier used in logs and metadata.
	Name() string
	// Generate sends the prompt and returns the raw text reply.
	Generate(ctx context.Context, prompt string) (string, error)
}

// systemPrompt frames every request; replies should be short and factual.
const systemPrompt = "Você é um assistente especializado em análise de produtos e promoções. Seja conciso e direto."

// ClientConfig holds the settings common to all HTTP clients.
type ClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// httpDoer is satisfied by *http.Client; tests substitute a stub.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// decodeError converts an upstream HTTP error status to a sentinel the
// manager understands: 429 means rate limited, everything else means the
// provider is unavailable for this request.
func decodeError(name string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w: %s", name, common.ErrRateLimited, string(body))
	}
	return fmt.Errorf("%s: status %d: %w: %s", name, resp.StatusCode, common.ErrProviderUnavailable, string(body))
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
