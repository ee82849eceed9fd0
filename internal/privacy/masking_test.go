package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskChatID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"lark chat id", "oc_a1b2c3d4e5f6", "oc_********e5f6"},
		{"short id", "oc_ab", "oc_**"},
		{"no prefix", "a1b2c3d4", "****c3d4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MaskChatID(tc.input))
		})
	}
}

func TestMaskMessageID(t *testing.T) {
	assert.Equal(t, "om_********e5f6", MaskMessageID("om_a1b2c3d4e5f6"))
	assert.Equal(t, "", MaskMessageID(""))
}

func TestMaskUserID(t *testing.T) {
	assert.Equal(t, "ou_********e5f6", MaskUserID("ou_a1b2c3d4e5f6"))
	assert.Equal(t, "****3456", MaskUserID("user123456"))
}

func TestMaskSessionKey(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"chat and user", "oc_abcd1234_ou_wxyz5678", "oc_****1234_ou_****5678"},
		{"plain ids", "chat123456_user7890", "******3456_****7890"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MaskSessionKey(tc.input))
		})
	}
}
