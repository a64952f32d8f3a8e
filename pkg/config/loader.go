// Package config provides configuration loading, validation and hot reload
// for the allowlist.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from ./configs/<APP_ENV>.yaml plus environment
// variables, validates it, and returns the resulting Config together with
// the viper instance used (for Watch).
func Load() (*Config, *viper.Viper, error) {
	// missing env files are fine, config may come entirely from YAML
	_ = godotenv.Load(".env.local", ".env")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := parse(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the config file on change and hands the freshly validated
// Config to apply. Invalid edits are logged and skipped; the previous
// configuration stays in effect.
func Watch(v *viper.Viper, log *slog.Logger, apply func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := parse(v)
		if err != nil {
			log.Error("ignoring config change", "file", e.Name, "error", err)
			return
		}

		log.Info("config reloaded", "file", e.Name)
		apply(cfg)
	})
	v.WatchConfig()
}

func parse(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
