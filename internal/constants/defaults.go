package constants

// Default server configuration values
const (
	DefaultServerPort            = 8080
	DefaultServerReadTimeoutSec  = 15
	DefaultServerWriteTimeoutSec = 15
	DefaultServerIdleTimeoutSec  = 60
	DefaultGracefulShutdownSec   = 30
	DefaultCleanupIntervalHours  = 24
	ServerErrorChannelSize       = 1
)

// Default dedup and retention values
const (
	DefaultDedupWindowMinutes = 30
	DefaultRetentionDays      = 30
	DefaultHistoryTurns       = 10
)

// Default agent service values
const (
	// DefaultAgentTimeoutSec allows for slow LLM generations.
	DefaultAgentTimeoutSec         = 90
	DefaultAgentFailureThreshold   = 5
	DefaultAgentRecoveryTimeoutSec = 60
)

// Default retry values (database initialization only; the request path
// never retries)
const (
	DefaultDatabaseRetryAttempts = 3
	DefaultBackoffInitialMs      = 500
	DefaultBackoffMaxMs          = 5000
)

// Key derivation salts for at-rest encryption of stored conversation content
const (
	EncryptionSalt       = "larkagent-conversation-store-v1"
	EncryptionLookupSalt = "larkagent-lookup-v1"
)

// Privacy settings
const (
	DefaultIDMaskKeepLast = 4
)
