package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*APIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultAPIConfig
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "30s")
	v.SetDefault("database.url", "")

	// Bind environment variables with BK_ prefix
	v.SetEnvPrefix("BK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: database credentials are environment-only per
	// 12-factor principles; reject them in config files.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &APIConfig{
		Host:         v.GetString("api.host"),
		Port:         v.GetInt("api.port"),
		ReadTimeout:  v.GetDuration("api.read_timeout"),
		WriteTimeout: v.GetDuration("api.write_timeout"),
		DatabaseURL:  v.GetString("database.url"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateNoSecretsInConfig enforces environment-only credentials.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("database.password") || v.IsSet("api.database_password") {
		return fmt.Errorf("database credentials not allowed in config files (use BK_DATABASE_URL environment variable)")
	}
	return nil
}
