package api

// Role identifies who authored a message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is one entry of the server's conversation listing.
type Conversation struct {
	SessionID          string `json:"session_id"`
	Summary            string `json:"summary"`
	MessageCount       int    `json:"message_count"`
	LastMessagePreview string `json:"last_message_preview"`
}

// Message is one turn of a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AskRequest is the body of POST /api/ask.
type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// AskResponse is the body returned by POST /api/ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// SessionResponse is the body returned by GET /api/get_session.
type SessionResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ConversationsResponse is the body returned by GET /api/conversations.
// Conversations is a pointer so a missing array can be told apart from an empty one.
type ConversationsResponse struct {
	Success       bool            `json:"success"`
	Conversations *[]Conversation `json:"conversations,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// HistoryResponse is the body returned by GET /api/conversations/{id}.
type HistoryResponse struct {
	Success bool      `json:"success"`
	History []Message `json:"history"`
	Error   string    `json:"error,omitempty"`
}

// StatusResponse is the body returned by DELETE /api/conversations/{id}.
type StatusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
