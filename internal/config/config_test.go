package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const validConfig = `{
	"lark": {
		"appId": "cli_test123",
		"appSecret": "secret123",
		"encryptKey": "test-encrypt-key"
	},
	"agent": {
		"baseUrl": "http://localhost:8000"
	},
	"database": {
		"path": "data/conversations.db"
	}
}`

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "cli_test123", cfg.Lark.AppID)
	assert.Equal(t, "secret123", cfg.Lark.AppSecret)
	assert.Equal(t, "http://localhost:8000", cfg.Agent.BaseURL)
	assert.Equal(t, "data/conversations.db", cfg.Database.Path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, validConfig)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, constants.DefaultDedupWindowMinutes, cfg.Dedup.WindowMinutes)
	assert.Equal(t, constants.DefaultAgentTimeoutSec, cfg.Agent.TimeoutSec)
	assert.Equal(t, constants.DefaultRetentionDays, cfg.RetentionDays)
	assert.Equal(t, constants.DefaultHistoryTurns, cfg.HistoryTurns)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "missing app id",
			content: `{"lark":{"appSecret":"s"},"agent":{"baseUrl":"u"},"database":{"path":"p"}}`,
			wantErr: ErrMissingAppID,
		},
		{
			name:    "missing app secret",
			content: `{"lark":{"appId":"a"},"agent":{"baseUrl":"u"},"database":{"path":"p"}}`,
			wantErr: ErrMissingAppSecret,
		},
		{
			name:    "missing agent url",
			content: `{"lark":{"appId":"a","appSecret":"s"},"database":{"path":"p"}}`,
			wantErr: ErrMissingAgentURL,
		},
		{
			name:    "missing database path",
			content: `{"lark":{"appId":"a","appSecret":"s"},"agent":{"baseUrl":"u"}}`,
			wantErr: ErrMissingDBPath,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := LoadConfig(path)
			assert.Equal(t, tc.wantErr, err)
		})
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "{not json")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("LARK_APP_ID", "cli_from_env")
	t.Setenv("LARK_APP_SECRET", "secret_from_env")
	t.Setenv("AGNO_SERVICE_URL", "http://agent:9000")
	t.Setenv("PORT", "9090")

	path := writeConfig(t, validConfig)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "cli_from_env", cfg.Lark.AppID)
	assert.Equal(t, "secret_from_env", cfg.Lark.AppSecret)
	assert.Equal(t, "http://agent:9000", cfg.Agent.BaseURL)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadConfig_ProductionRequiresEncryptKey(t *testing.T) {
	t.Setenv("LARKAGENT_ENV", "production")

	path := writeConfig(t, `{
		"lark": {"appId": "a", "appSecret": "s"},
		"agent": {"baseUrl": "u"},
		"database": {"path": "p"}
	}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encrypt key is required in production")
}

func TestLoadConfig_ProductionRejectsDebugLogging(t *testing.T) {
	t.Setenv("LARKAGENT_ENV", "production")
	t.Setenv("LARK_ENCRYPT_KEY", "a-sufficiently-long-encrypt-key")

	path := writeConfig(t, `{
		"lark": {"appId": "a", "appSecret": "s"},
		"agent": {"baseUrl": "u"},
		"database": {"path": "p"},
		"logLevel": "debug"
	}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debug logging")
}
