package models

import "time"

// Turn roles stored in the conversation log.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Session groups a sequence of conversational turns for one user in one chat.
// The key is {chat_id}_{user_id} and doubles as the agent framework's session
// identifier.
type Session struct {
	SessionKey string    `json:"sessionKey"`
	ChatID     string    `json:"chatId"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Turn is one stored message in a session, either the user's text or the
// agent's reply.
type Turn struct {
	ID         int64     `json:"id"`
	SessionKey string    `json:"sessionKey"`
	MessageID  string    `json:"messageId"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
