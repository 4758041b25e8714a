package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/infohub-br/promoagent/internal/common"
)

// chatCompletionClient speaks the OpenAI chat-completions wire format, which
// Groq also serves. Only the base URL, model, and credentials differ.
type chatCompletionClient struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  httpDoer
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *chatCompletionClient) Name() string { return c.name }

func (c *chatCompletionClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%s: marshaling request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s: creating request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", c.name, common.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", decodeError(c.name, resp)
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%s: decoding response: %w", c.name, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s: api error: %s: %w", c.name, parsed.Error.Message, common.ErrProviderUnavailable)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s: %w: empty choices", c.name, common.ErrMalformedReply)
	}

	return parsed.Choices[0].Message.Content, nil
}
