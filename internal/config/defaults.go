package config

// DefaultFMPBaseURL is the stable API root of the Financial Modeling Prep
// service. All eight tools resolve endpoints beneath it.
const DefaultFMPBaseURL = "https://financialmodelingprep.com/stable"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Name: "fmp-mcp",
			Host: "localhost",
			Port: 8080,
		},
		FMP: FMPConfig{
			BaseURL:        DefaultFMPBaseURL,
			APIKey:         "",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}
