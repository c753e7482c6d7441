package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the SQL backend: "postgres" (pgx) or "sqlite" (modernc).
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`

	// URL is a postgres connection URL or a sqlite file path / DSN.
	URL string `mapstructure:"url" validate:"required"`

	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs and verifies bearer tokens. It is mandatory: the server
	// refuses to start without it.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the validity window embedded in issued tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// EmailCaseSensitive switches email matching from case-insensitive
	// (lower-cased at registration and lookup) to exact matching.
	EmailCaseSensitive bool `mapstructure:"email_case_sensitive"`

	Argon2 Argon2Config `mapstructure:"argon2" validate:"required"`
}

// Argon2Config holds the cost parameters of the password hasher.
type Argon2Config struct {
	Time      uint32 `mapstructure:"time"       validate:"required,gt=0"`
	MemoryKiB uint32 `mapstructure:"memory_kib" validate:"required,gte=8"`
	Threads   uint8  `mapstructure:"threads"    validate:"required,gt=0"`
	KeyLen    uint32 `mapstructure:"key_len"    validate:"required,gte=16"`
}
