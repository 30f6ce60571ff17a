// Package config provides configuration management for Bookkeeper services.
package config

import (
	"fmt"
	"time"
)

// APIConfig holds configuration for the HTTP rules API service.
type APIConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	DatabaseURL  string
}

// DefaultAPIConfig returns configuration with default values.
func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Validate checks port range and positive timeouts.
func (cfg *APIConfig) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive, got %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive, got %v", cfg.WriteTimeout)
	}
	return nil
}
