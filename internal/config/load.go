package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, if present, a
// config.yaml in the working directory. Environment variables take
// precedence over file values and use the EDUPILOT_ prefix with underscores
// for nesting, e.g. EDUPILOT_SERVER_PORT or EDUPILOT_LLM_GEMINI_API_KEY.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("EDUPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only binds env vars it has seen; register every key explicitly
	// so a pure-environment deployment works without a config file.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"store.data_dir",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"llm.gemini_api_key",
		"llm.model_name",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; environment variables are enough.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
