package models

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatState holds a user's recent assistant conversation, persisted in the
// state repository with a TTL.
type ChatState struct {
	UserID   string        `json:"user_id"`
	Messages []ChatMessage `json:"messages"`
}
