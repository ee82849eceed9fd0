package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/seongon-agency/lark-agent-agno-backend/internal/constants"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/models"
	"github.com/seongon-agency/lark-agent-agno-backend/internal/security"
)

var (
	ErrMissingAppID     = models.ConfigError{Message: "missing Lark app id"}
	ErrMissingAppSecret = models.ConfigError{Message: "missing Lark app secret"}
	ErrMissingAgentURL  = models.ConfigError{Message: "missing agent service URL"}
	ErrMissingDBPath    = models.ConfigError{Message: "missing database path"}
)

func LoadConfig(path string) (*models.Config, error) {
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	file, err := os.ReadFile(path) // #nosec G304 - Path validated above
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	if err := validateSecurity(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(c *models.Config) error {
	if c.Lark.AppID == "" {
		return ErrMissingAppID
	}
	if c.Lark.AppSecret == "" {
		return ErrMissingAppSecret
	}
	if c.Agent.BaseURL == "" {
		return ErrMissingAgentURL
	}
	if c.Database.Path == "" {
		return ErrMissingDBPath
	}

	if c.Server.Port <= 0 {
		c.Server.Port = constants.DefaultServerPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = constants.DefaultServerReadTimeoutSec
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = constants.DefaultServerWriteTimeoutSec
	}
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = constants.DefaultServerIdleTimeoutSec
	}
	if c.Server.CleanupIntervalHours <= 0 {
		c.Server.CleanupIntervalHours = constants.DefaultCleanupIntervalHours
	}
	if c.Dedup.WindowMinutes <= 0 {
		c.Dedup.WindowMinutes = constants.DefaultDedupWindowMinutes
	}
	if c.Agent.TimeoutSec <= 0 {
		c.Agent.TimeoutSec = constants.DefaultAgentTimeoutSec
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = constants.DefaultRetentionDays
	}
	if c.HistoryTurns <= 0 {
		c.HistoryTurns = constants.DefaultHistoryTurns
	}
	return nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if v := os.Getenv("LARK_APP_ID"); v != "" {
		c.Lark.AppID = v
	}
	// SECURITY: credentials should come from the environment, not the file
	if v := os.Getenv("LARK_APP_SECRET"); v != "" {
		c.Lark.AppSecret = v
	}
	if v := os.Getenv("LARK_ENCRYPT_KEY"); v != "" {
		c.Lark.EncryptKey = v
	}
	if v := os.Getenv("LARK_VERIFICATION_TOKEN"); v != "" {
		c.Lark.VerificationToken = v
	}
	if v := os.Getenv("AGNO_SERVICE_URL"); v != "" {
		c.Agent.BaseURL = v
	}
	if v := os.Getenv("LARK_BASE_ID"); v != "" {
		c.Agent.BaseID = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
}

// validateSecurity performs security-specific validation
func validateSecurity(c *models.Config) error {
	isProduction := os.Getenv("LARKAGENT_ENV") == "production"

	if isProduction {
		// Unencrypted webhook deliveries expose chat content in transit.
		if c.Lark.EncryptKey == "" {
			return models.ConfigError{Message: "Lark encrypt key is required in production (set LARK_ENCRYPT_KEY environment variable)"}
		}
		if len(c.Lark.EncryptKey) < 16 {
			return models.ConfigError{Message: "Lark encrypt key must be at least 16 characters long"}
		}
		if c.LogLevel == "debug" {
			return models.ConfigError{Message: "debug logging should not be used in production (security risk)"}
		}
	} else {
		if c.Lark.EncryptKey == "" {
			fmt.Fprintf(os.Stderr, "WARNING: Lark encrypt key not set. Set LARK_ENCRYPT_KEY to enable encrypted webhook payloads.\n")
		}
	}

	return nil
}
