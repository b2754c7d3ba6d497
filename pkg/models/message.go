package models

// Role indicates the message author type.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the conversation history. Messages are appended in
// strict user/assistant pairs and are never mutated or removed individually.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Index is the message's position in the history (0-based).
	Index int `json:"index"`
}
