package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds client configuration values.
type Config struct {
	// Endpoint is the lobby server WebSocket address.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogFile receives structured logs; empty logs to stderr. The terminal
	// itself is the presentation surface, so stdout stays clean.
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	// IdentityPath is the expiring last-used-name cache.
	IdentityPath string        `mapstructure:"identity_path" yaml:"identity_path"`
	IdentityTTL  time.Duration `mapstructure:"identity_ttl" yaml:"identity_ttl"`

	// TranscriptPath enables the local chat archive; empty disables it.
	TranscriptPath string `mapstructure:"transcript_path" yaml:"transcript_path"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Endpoint:     "ws://localhost:8767",
		LogLevel:     "info",
		IdentityPath: filepath.Join(dataDir(), "identity.db"),
		IdentityTTL:  24 * time.Hour,
	}
}

func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".xqclient"
	}
	return filepath.Join(home, ".xqclient")
}
