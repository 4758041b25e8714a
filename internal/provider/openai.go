package provider

// NewOpenAI creates the OpenAI client.
func NewOpenAI(cfg ClientConfig) Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &chatCompletionClient{
		name:    "openai",
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  newHTTPClient(cfg.Timeout),
	}
}
