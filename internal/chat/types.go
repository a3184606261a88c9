package chat

// ChatMessageRequest represents one user turn in a conversation
type ChatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// ChatMessageResponse represents the assistant's reply
type ChatMessageResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// ResetSessionRequest represents a reset session request
type ResetSessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// ResetSessionResponse represents a reset session response
type ResetSessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
