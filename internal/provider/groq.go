package provider

// NewGroq creates the Groq client. Groq serves the OpenAI chat-completions
// format; the default model favors latency over size.
func NewGroq(cfg ClientConfig) Client {
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-8b-instant"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	return &chatCompletionClient{
		name:    "groq",
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  newHTTPClient(cfg.Timeout),
	}
}
