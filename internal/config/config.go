package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the gateway configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	FMP         FMPConfig     `toml:"fmp"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// FMPConfig contains the upstream Financial Modeling Prep settings.
// APIKey is usually supplied via the FMP_API_KEY environment variable
// rather than written into a TOML file.
type FMPConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the upstream request timeout as a duration.
func (f FMPConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int64    `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies FMPMCP_* environment variable overrides to config.
// The provider credential additionally honours the conventional FMP_API_KEY
// variable, which takes precedence over any file value.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FMPMCP_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("FMPMCP_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FMPMCP_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if baseURL := os.Getenv("FMPMCP_FMP_BASE_URL"); baseURL != "" {
		config.FMP.BaseURL = baseURL
	}
	if timeout := os.Getenv("FMPMCP_FMP_TIMEOUT_SECONDS"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.FMP.TimeoutSeconds = t
		}
	}
	if key := os.Getenv("FMP_API_KEY"); key != "" {
		config.FMP.APIKey = key
	}
	if level := os.Getenv("FMPMCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("FMPMCP_LOG_OUTPUTS"); outputs != "" {
		parts := strings.Split(outputs, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			config.Logging.Outputs = cleaned
		}
	}
	if filePath := os.Getenv("FMPMCP_LOG_FILE"); filePath != "" {
		config.Logging.FilePath = filePath
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// validLogLevels mirrors the levels the logging wrapper accepts.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

// Validate checks mandatory fields and value ranges, returning one message
// per issue. A missing API key is deliberately not an issue here: discovery
// methods must work without a credential, so the gateway only warns at
// startup and fails per tools/call.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.FMP.BaseURL == "" {
		issues = append(issues, "fmp.base_url must not be empty")
	} else if !strings.HasPrefix(c.FMP.BaseURL, "http://") && !strings.HasPrefix(c.FMP.BaseURL, "https://") {
		issues = append(issues, fmt.Sprintf("fmp.base_url must start with http:// or https:// (got %q)", c.FMP.BaseURL))
	}
	if c.FMP.TimeoutSeconds < 1 || c.FMP.TimeoutSeconds > 300 {
		issues = append(issues, fmt.Sprintf("fmp.timeout_seconds must be between 1 and 300 (got %d)", c.FMP.TimeoutSeconds))
	}
	if c.Logging.Level != "" && !validLogLevels[strings.ToLower(c.Logging.Level)] {
		issues = append(issues, fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error, fatal", c.Logging.Level))
	}

	return issues
}
