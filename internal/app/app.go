// Package app wires the gateway's components together: config and logger
// in, FMP client, MCP gateway, and HTTP handlers out.
package app

import (
	"github.com/bobmcallan/fmp-mcp/internal/common"
	"github.com/bobmcallan/fmp-mcp/internal/config"
	"github.com/bobmcallan/fmp-mcp/internal/fmp"
	"github.com/bobmcallan/fmp-mcp/internal/handlers"
	"github.com/bobmcallan/fmp-mcp/internal/mcp"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	FMP     *fmp.Client
	Gateway *mcp.Handler

	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// New initializes the application with all dependencies. A missing API
// key is not fatal: discovery still works, so the gateway starts and
// warns instead of refusing to come up.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	a.FMP = fmp.NewClient(cfg, logger)
	if !a.FMP.HasKey() {
		logger.Warn().Msg("no API key configured: tool calls will fail until FMP_API_KEY is set")
	}

	a.Gateway = mcp.NewHandler(a.FMP, logger)
	a.HealthHandler = handlers.NewHealthHandler(logger)
	a.VersionHandler = handlers.NewVersionHandler(logger)

	logger.Info().
		Str("base_url", a.FMP.BaseURL()).
		Msg("application initialization complete")

	return a, nil
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
