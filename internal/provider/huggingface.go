package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/infohub-br/promoagent/internal/common"
)

// huggingFaceClient calls the Hugging Face inference API.
type huggingFaceClient struct {
	apiKey  string
	model   string
	baseURL string
	client  httpDoer
}

// NewHuggingFace creates the Hugging Face client. It is the slowest provider
// in the chain and sits last before the local responder.
func NewHuggingFace(cfg ClientConfig) Client {
	if cfg.Model == "" {
		cfg.Model = "mistralai/Mistral-7B-Instruct-v0.3"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co/models"
	}
	return &huggingFaceClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  newHTTPClient(cfg.Timeout),
	}
}

type huggingFaceRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens int     `json:"max_new_tokens"`
		Temperature  float64 `json:"temperature"`
	} `json:"parameters"`
}

type huggingFaceResult struct {
	GeneratedText string `json:"generated_text"`
}

func (c *huggingFaceClient) Name() string { return "huggingface" }

// Generate retries once on 503: the inference API answers that while the
// model is still loading onto a worker.
func (c *huggingFaceClient) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := common.WithRetry(ctx, func() error {
		var reqErr error
		text, reqErr = c.doRequest(ctx, prompt)
		return reqErr
	}, common.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: 500 * time.Millisecond,
	})
	return text, err
}

func (c *huggingFaceClient) doRequest(ctx context.Context, prompt string) (string, error) {
	input := systemPrompt + "\n\n" + prompt

	reqBody := huggingFaceRequest{Inputs: input}
	reqBody.Parameters.MaxNewTokens = 500
	reqBody.Parameters.Temperature = 0.3

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("huggingface: marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("huggingface: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface: %w: %w", common.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return "", &common.RetryableError{Err: decodeError("huggingface", resp), Retryable: true}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &common.RetryableError{Err: decodeError("huggingface", resp), Retryable: false}
	}

	var results []huggingFaceResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("huggingface: decoding response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("huggingface: %w: empty result list", common.ErrMalformedReply)
	}

	// The inference API echoes the prompt before the completion.
	text := strings.TrimPrefix(results[0].GeneratedText, input)
	return strings.TrimSpace(text), nil
}
