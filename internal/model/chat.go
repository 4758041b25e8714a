package model

// ChatRequest carries one user message through the pipeline.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id,omitempty"`
	Offers    []Offer `json:"offers,omitempty"`
	UserID    int64   `json:"user_id,omitempty"`
}

// ResponseMetadata describes how a reply was produced.
type ResponseMetadata struct {
	Intent         Intent               `json:"intent"`
	Method         ClassificationMethod `json:"method"`
	ResponseTimeMs int64                `json:"response_time_ms"`
	Cached         bool                 `json:"cached"`
}

// ChatResponse is the reply returned for one ChatRequest.
type ChatResponse struct {
	Reply      string           `json:"reply"`
	ToolsUsed  []string         `json:"tools_used"`
	Metadata   ResponseMetadata `json:"metadata"`
	Confidence float64          `json:"confidence"`
}
