package models

// ConfigError represents a configuration validation failure that should
// prevent the process from launching.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

type ServerConfig struct {
	Host                 string `json:"host"`
	Port                 int    `json:"port"`
	ReadTimeoutSec       int    `json:"readTimeoutSec"`
	WriteTimeoutSec      int    `json:"writeTimeoutSec"`
	IdleTimeoutSec       int    `json:"idleTimeoutSec"`
	CleanupIntervalHours int    `json:"cleanupIntervalHours"`
}

type LarkConfig struct {
	AppID             string `json:"appId"`
	AppSecret         string `json:"appSecret"`
	EncryptKey        string `json:"encryptKey"`
	VerificationToken string `json:"verificationToken"`
}

type AgentConfig struct {
	BaseURL      string `json:"baseUrl"`
	TimeoutSec   int    `json:"timeoutSec"`
	SystemPrompt string `json:"systemPrompt"`
	// BaseID is the Lark Base board the tool-augmented agent deployment
	// operates on. Forwarded to the agent service inside the system prompt
	// so its task-management tools target the right board.
	BaseID string `json:"baseId"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

type DedupConfig struct {
	WindowMinutes int `json:"windowMinutes"`
}

type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	UseStdout      bool    `json:"useStdout"`
}

type Config struct {
	Server        ServerConfig   `json:"server"`
	Lark          LarkConfig     `json:"lark"`
	Agent         AgentConfig    `json:"agent"`
	Database      DatabaseConfig `json:"database"`
	Dedup         DedupConfig    `json:"dedup"`
	Tracing       TracingConfig  `json:"tracing"`
	RetentionDays int            `json:"retentionDays"`
	HistoryTurns  int            `json:"historyTurns"`
	LogLevel      string         `json:"logLevel"`
}
