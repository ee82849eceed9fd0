package models

import "encoding/json"

// Lark event types we dispatch on.
const (
	EventTypeMessageReceive  = "im.message.receive_v1"
	EventTypeURLVerification = "url_verification"
	MsgTypeText              = "text"
)

// EventEnvelope is the outer shape of a Lark webhook delivery. The same
// envelope covers the v1 challenge handshake (top-level challenge/token/type),
// the v2 schema (header + event), and encrypted deliveries where only the
// encrypt field is present.
type EventEnvelope struct {
	Encrypt   string          `json:"encrypt,omitempty"`
	Challenge string          `json:"challenge,omitempty"`
	Token     string          `json:"token,omitempty"`
	Type      string          `json:"type,omitempty"`
	Schema    string          `json:"schema,omitempty"`
	Header    *EventHeader    `json:"header,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
}

type EventHeader struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	Token      string `json:"token"`
	AppID      string `json:"app_id"`
	TenantKey  string `json:"tenant_key"`
	CreateTime string `json:"create_time"`
}

// IsChallenge reports whether the envelope is a URL-verification handshake,
// in either the v1 (bare challenge) or v2 (type marker) shape.
func (e *EventEnvelope) IsChallenge() bool {
	return e.Challenge != "" || e.Type == EventTypeURLVerification
}

// EventType returns the event type, preferring the v2 header.
func (e *EventEnvelope) EventType() string {
	if e.Header != nil && e.Header.EventType != "" {
		return e.Header.EventType
	}
	return e.Type
}

// VerificationToken returns the app verification token from whichever
// envelope shape carried it.
func (e *EventEnvelope) VerificationToken() string {
	if e.Header != nil && e.Header.Token != "" {
		return e.Header.Token
	}
	return e.Token
}

// MessageReceiveEvent is the im.message.receive_v1 event body.
type MessageReceiveEvent struct {
	Sender struct {
		SenderID struct {
			UserID  string `json:"user_id"`
			OpenID  string `json:"open_id"`
			UnionID string `json:"union_id"`
		} `json:"sender_id"`
		SenderType string `json:"sender_type"`
	} `json:"sender"`
	Message struct {
		MessageID   string `json:"message_id"`
		RootID      string `json:"root_id"`
		ParentID    string `json:"parent_id"`
		CreateTime  string `json:"create_time"`
		ChatID      string `json:"chat_id"`
		ChatType    string `json:"chat_type"`
		MessageType string `json:"message_type"`
		Content     string `json:"content"`
	} `json:"message"`
}

// SenderUserID returns the most specific sender identifier available.
// Bots configured without the user_id scope only receive open_id.
func (e *MessageReceiveEvent) SenderUserID() string {
	if e.Sender.SenderID.UserID != "" {
		return e.Sender.SenderID.UserID
	}
	return e.Sender.SenderID.OpenID
}

// TextContent is the JSON body of a text message's Content field.
type TextContent struct {
	Text string `json:"text"`
}

// ParseTextContent extracts the plain text from a text message Content field.
func ParseTextContent(content string) (string, error) {
	var tc TextContent
	if err := json.Unmarshal([]byte(content), &tc); err != nil {
		return "", err
	}
	return tc.Text, nil
}

// CardActionEvent is the card-interaction callback body. Button clicks are
// acknowledged but not acted upon.
type CardActionEvent struct {
	OpenID    string `json:"open_id"`
	UserID    string `json:"user_id"`
	MessageID string `json:"open_message_id"`
	ChatID    string `json:"open_chat_id"`
	Action    struct {
		Value map[string]interface{} `json:"value"`
		Tag   string                 `json:"tag"`
	} `json:"action"`
}
