package config

import "time"

// Config holds runtime configuration for the StakeChat bot.
type Config struct {
	AppEnv string `mapstructure:"-"`

	Bot       BotConfig       `mapstructure:"bot" validate:"required"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Wallet    WalletConfig    `mapstructure:"wallet" validate:"required"`
	Network   NetworkConfig   `mapstructure:"network" validate:"required"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	History   HistoryConfig   `mapstructure:"history"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Validators maps friendly validator names to SS58 hotkey addresses.
	Validators map[string]string `mapstructure:"validators"`

	// Allowlist maps a platform name to the user IDs allowed to trade.
	// An absent or empty platform entry disables enforcement there.
	Allowlist map[string][]string `mapstructure:"allowlist"`
}

type BotConfig struct {
	Token   string        `mapstructure:"token" validate:"required"`
	Mode    string        `mapstructure:"mode" validate:"omitempty,oneof=polling webhook"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `mapstructure:"file"`
}

type ServerConfig struct {
	// Port serves webhook mode and the metrics endpoint.
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true"`
}

// RedisConfig enables the shared pending-action store. Disabled means the
// in-process store, which is fine for a single bot instance.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type WalletConfig struct {
	Coldkey  string `mapstructure:"coldkey" validate:"required"`
	Password string `mapstructure:"password"`
}

type NetworkConfig struct {
	// GatewayURL points at the wallet gateway sidecar that holds keys and
	// submits extrinsics.
	GatewayURL string `mapstructure:"gateway_url" validate:"required,url"`
	// Name is the subtensor network the gateway targets, e.g. "finney".
	Name string `mapstructure:"name" validate:"required"`
}

type DefaultsConfig struct {
	Netuid     int           `mapstructure:"netuid" validate:"gte=0"`
	Validator  string        `mapstructure:"validator"`
	ConfirmTTL time.Duration `mapstructure:"confirm_ttl"`
}

type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit" validate:"required_if=Enabled true,omitempty,gt=0"`
	Window  time.Duration `mapstructure:"window" validate:"required_if=Enabled true"`
}
