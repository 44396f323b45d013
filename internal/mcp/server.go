package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fmp-mcp/internal/common"
	"github.com/bobmcallan/fmp-mcp/internal/config"
	"github.com/bobmcallan/fmp-mcp/internal/fmp"
)

// serverInstructions is sent to agent hosts during initialize so the
// model knows what this connector is for before it lists tools.
const serverInstructions = "This connector provides financial market data " +
	"from Financial Modeling Prep: symbol search, real-time quotes, " +
	"historical end-of-day prices, company profiles, and financial " +
	"statements (income, balance sheet, cash flow). Start with " +
	"search_symbol or search_name to resolve a ticker, then use the " +
	"data tools with that symbol. All data is returned as raw JSON from " +
	"the provider."

// NewServer builds the MCP protocol engine with the full tool catalog
// registered. The catalog is fixed at construction; nothing registers,
// mutates, or removes tools afterwards. Tests construct one directly and
// drive it with HandleMessage.
func NewServer(client *fmp.Client, logger *common.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"fmp-mcp",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithInstructions(serverInstructions),
	)

	registerTools(s, client)

	logger.Debug().
		Int("tools", len(toolNames())).
		Str("base_url", client.BaseURL()).
		Msg("MCP server initialized")

	return s
}

// Handler serves the MCP engine over both transports: ServeHTTP for the
// stateless streamable HTTP endpoint and ServeStdio for console hosts.
// Both share the same engine, so tool behavior cannot diverge between
// transports.
type Handler struct {
	mcp        *mcpserver.MCPServer
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewHandler creates the MCP handler for the gateway. Stateless mode
// means any request can be served by any worker: no session is created
// and no request carries memory of a prior one.
func NewHandler(client *fmp.Client, logger *common.Logger) *Handler {
	s := NewServer(client, logger)

	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
	)

	return &Handler{
		mcp:        s,
		streamable: streamable,
		logger:     logger,
	}
}

// ServeHTTP delegates to the streamable HTTP transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

// ServeStdio serves the engine over stdin/stdout. Blocks until the
// stream closes. Log output must be routed to stderr or a file so the
// stdout protocol channel stays clean; the logging wrapper already
// writes console output to stderr.
func (h *Handler) ServeStdio() error {
	return mcpserver.ServeStdio(h.mcp)
}
