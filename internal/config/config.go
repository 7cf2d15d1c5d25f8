package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Job      JobConfig      `mapstructure:"job"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name"     validate:"required"`

	// MaxRetries is the number of additional attempts made for transient
	// API failures before giving up.
	MaxRetries int `mapstructure:"max_retries"         validate:"gte=0"`

	// RetryDelaySeconds is the base delay for exponential backoff between
	// retries.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`

	// FetchTimeoutSeconds bounds the page-content fetch performed before
	// summarization.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" validate:"gt=0"`
}

// JobConfig contains settings for the background job subsystem.
type JobConfig struct {
	// WorkerCount determines how many concurrent workers drain the job queue.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize is the buffer size of the in-memory job queue. Submissions
	// beyond this bound are rejected rather than silently spawning
	// unbounded goroutines.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// ItemDelayMs is the pacing delay between batch-import items, so bulk
	// imports do not hammer third-party sites.
	ItemDelayMs int `mapstructure:"item_delay_ms" validate:"gte=0"`
}
