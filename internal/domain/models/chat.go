package models

// ChatRequest is one user turn sent to the support agent.
type ChatRequest struct {
	UserID  string `json:"user_id" form:"user_id" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

// ChatResponse carries the model reply and the transaction context it saw.
type ChatResponse struct {
	Reply   string        `json:"reply"`
	Context *ToolResponse `json:"context"`
}

// ChatError is sent over the websocket when a frame cannot be handled.
type ChatError struct {
	Error string `json:"error"`
}
