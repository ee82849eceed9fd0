package privacy

import (
	"strings"
)

// Lark identifiers carry a short type prefix ("oc_" chat, "om_" message,
// "ou_" open id, "on_" union id). Masking keeps the prefix and the last four
// characters so logs stay correlatable without exposing the full id.

// MaskChatID masks a chat ID while keeping its type prefix.
// Example: "oc_a1b2c3d4e5f6" -> "oc_********e5f6"
func MaskChatID(chatID string) string {
	return maskPrefixedID(chatID)
}

// MaskMessageID masks a message ID while keeping its type prefix.
// Example: "om_a1b2c3d4e5f6" -> "om_********e5f6"
func MaskMessageID(messageID string) string {
	return maskPrefixedID(messageID)
}

// MaskUserID masks a user identifier.
// Example: "ou_a1b2c3d4e5f6" -> "ou_********e5f6"
func MaskUserID(userID string) string {
	return maskPrefixedID(userID)
}

// MaskSessionKey masks a {chat_id}_{user_id} session key part by part.
func MaskSessionKey(sessionKey string) string {
	if sessionKey == "" {
		return ""
	}
	parts := strings.Split(sessionKey, "_")
	for i, p := range parts {
		// Keep the short type prefixes readable.
		if len(p) <= 2 {
			continue
		}
		parts[i] = maskString(p, 4)
	}
	return strings.Join(parts, "_")
}

func maskPrefixedID(id string) string {
	if id == "" {
		return ""
	}
	if idx := strings.Index(id, "_"); idx > 0 && idx <= 3 {
		return id[:idx+1] + maskString(id[idx+1:], 4)
	}
	return maskString(id, 4)
}

func maskString(s string, keepLast int) string {
	if len(s) <= keepLast {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keepLast) + s[len(s)-keepLast:]
}
