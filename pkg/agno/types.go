package agno

// Message is one prior conversational turn replayed to the agent service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID    string    `json:"session_id"`
	Message      string    `json:"message"`
	History      []Message `json:"history,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	OpenAIConfigured bool   `json:"openai_configured"`
	StoragePath      string `json:"storage_path"`
	Timestamp        string `json:"timestamp"`
}
