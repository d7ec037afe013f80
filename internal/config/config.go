package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// CacheConfig contains settings for the task read-through cache.
type CacheConfig struct {
	Addr       string `mapstructure:"addr" validate:"required"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// QueueConfig contains settings for background task processing.
// AMQPURL is optional: when empty, jobs run on the in-process queue only.
type QueueConfig struct {
	WorkerCount int    `mapstructure:"worker_count" validate:"gte=0"`
	BufferSize  int    `mapstructure:"buffer_size" validate:"gte=0"`
	AMQPURL     string `mapstructure:"amqp_url"`
	Exchange    string `mapstructure:"exchange"`
}
