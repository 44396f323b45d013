package mcp

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/fmp-mcp/internal/fmp"
)

// Statement tools share these validation bounds.
const (
	defaultPeriod = "annual"
	defaultLimit  = 5
	minLimit      = 1
	maxLimit      = 100
)

var allowedPeriods = []string{"annual", "quarter"}

// registerTools wires every catalog tool to its handler. One explicit
// handler per tool; adding or removing a tool is a single edit here plus
// its create/handle pair.
func registerTools(s *server.MCPServer, c *fmp.Client) {
	s.AddTool(createSearchSymbolTool(), handleSearchSymbol(c))
	s.AddTool(createSearchNameTool(), handleSearchName(c))
	s.AddTool(createGetQuoteTool(), handleGetQuote(c))
	s.AddTool(createGetHistoricalPricesTool(), handleGetHistoricalPrices(c))
	s.AddTool(createGetCompanyProfileTool(), handleGetCompanyProfile(c))
	s.AddTool(createGetIncomeStatementTool(), handleGetIncomeStatement(c))
	s.AddTool(createGetBalanceSheetTool(), handleGetBalanceSheet(c))
	s.AddTool(createGetCashFlowTool(), handleGetCashFlow(c))
}

// textResult wraps a serialized provider payload as a single text content
// item. Errors never pass through here; they travel as Go errors so the
// protocol engine puts them in the envelope's error member, and callers
// can detect failure from envelope shape alone.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// callUpstream performs the single provider request for a validated tool
// call. A missing credential fails here with a clear message instead of a
// confusing provider 401; validation has already run by the time this is
// reached, so schema errors still surface without a key.
func callUpstream(ctx context.Context, c *fmp.Client, endpoint string, params url.Values) (*mcp.CallToolResult, error) {
	if !c.HasKey() {
		return nil, &fmp.Error{
			Kind:    fmp.KindUpstream,
			Message: "no API key configured: set FMP_API_KEY to enable tool calls",
		}
	}
	body, err := c.Get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return textResult(string(body)), nil
}

func handleSearchSymbol(c *fmp.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := rejectUnknown(args, "query"); err != nil {
			return nil, err
		}
		query, err := requireString(args, "query")
		if err != nil {
			return nil, err
		}
		return callUpstream(ctx, c, "search-symbol", url.Values{"query": {query}})
	}
}

func handleSearchName(c *fmp.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := rejectUnknown(args, "query"); err != nil {
			return nil, err
		}
		query, err := requireString(args, "query")
		if err != nil {
			return nil, err
		}
		return callUpstream(ctx, c, "search-name", url.Values{"query": {query}})
	}
}

func handleGetQuote(c *fmp.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := rejectUnknown(args, "symbol"); err != nil {
			return nil, err
		}
		symbol, err := requireString(args, "symbol")
		if err != nil {
			return nil, err
		}
		return callUpstream(ctx, c, "quote", url.Values{"symbol": {strings.ToUpper(symbol)}})
	}
}

func handleGetHistoricalPrices(c *fmp.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := rejectUnknown(args, "symbol", "from", "to"); err != nil {
			return nil, err
		}
		symbol, err := requireString(args, "symbol")
		if err != nil {
			return nil, err
		}
		from, err := optionalDate(args, "from")
		if err != nil {
			return nil, err
		}
		to, err := optionalDate(args, "to")
		if err != nil {
			return nil, err
		}

		params := url.Values{}
		if from != "" {
			params.Set("from", from)
		}
		if to != "" {
			params.Set("to", to)
		}

		// The historical endpoint takes the symbol in the path, not the query.
		endpoint := "historical-price-eod/full/" + url.PathEscape(strings.ToUpper(symbol))
		return callUpstream(ctx, c, endpoint, params)
	}
}

func handleGetCompanyProfile(c *fmp.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := rejectUnknown(args, "symbol"); err != nil {
			return nil, err
		}
		symbol, err := requireString(args, "symbol")
		if err != nil {
			return nil, err
		}
		return callUpstream(ctx, c, "profile", url.Values{"symbol": {strings.ToUpper(symbol)}})
	}
}

func handleGetIncomeStatement(c *fmp.Client) server.ToolHandlerFunc {
	return handleStatement(c, "income-statement")
}

func handleGetBalanceSheet(c *fmp.Client) server.ToolHandlerFunc {
	return handleStatement(c, "balance-sheet-statement")
}

func handleGetCashFlow(c *fmp.Client) server.ToolHandlerFunc {
	return handleStatement(c, "cash-flow-statement")
}

// handleStatement covers the three financial-statement tools, which share
// the {symbol, period, limit} input shape and differ only by endpoint.
func handleStatement(c *fmp.Client, endpoint string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := rejectUnknown(args, "symbol", "period", "limit"); err != nil {
			return nil, err
		}
		symbol, err := requireString(args, "symbol")
		if err != nil {
			return nil, err
		}
		period, err := optionalEnum(args, "period", allowedPeriods, defaultPeriod)
		if err != nil {
			return nil, err
		}
		limit, err := optionalInt(args, "limit", minLimit, maxLimit, defaultLimit)
		if err != nil {
			return nil, err
		}

		params := url.Values{
			"symbol": {strings.ToUpper(symbol)},
			"period": {period},
			"limit":  {strconv.Itoa(limit)},
		}
		return callUpstream(ctx, c, endpoint, params)
	}
}
