// Package mcp exposes the Financial Modeling Prep tool catalog over the
// Model Context Protocol: a static set of eight tools, registered once at
// startup, served over streamable HTTP or stdio. Descriptions are written
// for a language model choosing among tools, so near-synonyms
// (search_symbol vs search_name) spell out when to prefer which.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// toolNames returns every catalog tool name. mcp-go serves tools/list
// sorted by name, so this is also the order callers observe.
func toolNames() []string {
	return []string{
		"get_balance_sheet",
		"get_cash_flow",
		"get_company_profile",
		"get_historical_prices",
		"get_income_statement",
		"get_quote",
		"search_name",
		"search_symbol",
	}
}

func createSearchSymbolTool() mcp.Tool {
	return mcp.NewTool("search_symbol",
		mcp.WithDescription("Search for stock ticker symbols by symbol fragment. Use this when you already know part of the ticker (e.g. 'AAP' finds AAPL). To find a ticker from a company name like 'Apple', use search_name instead."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("Ticker symbol or fragment to search for (e.g. 'AAPL', 'MSF')")),
	)
}

func createSearchNameTool() mcp.Tool {
	return mcp.NewTool("search_name",
		mcp.WithDescription("Search for stock ticker symbols by company name. Use this when you know the company but not its ticker (e.g. 'Apple' finds AAPL). If you already have a ticker or fragment, use search_symbol instead."),
		mcp.WithString("query", mcp.Required(),
			mcp.Description("Full or partial company name to search for (e.g. 'Apple', 'Berkshire')")),
	)
}

func createGetQuoteTool() mcp.Tool {
	return mcp.NewTool("get_quote",
		mcp.WithDescription("Get the current stock quote for a ticker symbol: price, change, day range, volume, and market cap. Use for spot price checks; for end-of-day history use get_historical_prices."),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. 'AAPL'). Case-insensitive.")),
	)
}

func createGetHistoricalPricesTool() mcp.Tool {
	return mcp.NewTool("get_historical_prices",
		mcp.WithDescription("Get historical end-of-day OHLCV prices for a ticker symbol, optionally bounded by a date range. Use for trend or return analysis over time; for the latest price use get_quote."),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. 'AAPL'). Case-insensitive.")),
		mcp.WithString("from",
			mcp.Description("Start date in YYYY-MM-DD format. Omit for the provider's default range.")),
		mcp.WithString("to",
			mcp.Description("End date in YYYY-MM-DD format. Omit for the provider's default range.")),
	)
}

func createGetCompanyProfileTool() mcp.Tool {
	return mcp.NewTool("get_company_profile",
		mcp.WithDescription("Get the company profile for a ticker symbol: sector, industry, description, executives, market cap, and listing details. Use for qualitative background; for financial figures use the statement tools."),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. 'AAPL'). Case-insensitive.")),
	)
}

func createGetIncomeStatementTool() mcp.Tool {
	return mcp.NewTool("get_income_statement",
		mcp.WithDescription("Get income statements for a ticker symbol: revenue, operating income, net income, and EPS per period. Use for profitability analysis; for assets and liabilities use get_balance_sheet, for cash movements use get_cash_flow."),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. 'AAPL'). Case-insensitive.")),
		mcp.WithString("period",
			mcp.Description("Reporting period: 'annual' or 'quarter' (default: annual)"),
			mcp.Enum("annual", "quarter")),
		mcp.WithNumber("limit",
			mcp.Description("Number of periods to return, 1-100 (default: 5)")),
	)
}

func createGetBalanceSheetTool() mcp.Tool {
	return mcp.NewTool("get_balance_sheet",
		mcp.WithDescription("Get balance sheet statements for a ticker symbol: assets, liabilities, equity, and debt per period. Use for solvency and capital-structure analysis; for earnings use get_income_statement, for cash movements use get_cash_flow."),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. 'AAPL'). Case-insensitive.")),
		mcp.WithString("period",
			mcp.Description("Reporting period: 'annual' or 'quarter' (default: annual)"),
			mcp.Enum("annual", "quarter")),
		mcp.WithNumber("limit",
			mcp.Description("Number of periods to return, 1-100 (default: 5)")),
	)
}

func createGetCashFlowTool() mcp.Tool {
	return mcp.NewTool("get_cash_flow",
		mcp.WithDescription("Get cash flow statements for a ticker symbol: operating, investing, and financing cash flows plus free cash flow per period. Use for liquidity analysis; for earnings use get_income_statement, for assets use get_balance_sheet."),
		mcp.WithString("symbol", mcp.Required(),
			mcp.Description("Stock ticker symbol (e.g. 'AAPL'). Case-insensitive.")),
		mcp.WithString("period",
			mcp.Description("Reporting period: 'annual' or 'quarter' (default: annual)"),
			mcp.Enum("annual", "quarter")),
		mcp.WithNumber("limit",
			mcp.Description("Number of periods to return, 1-100 (default: 5)")),
	)
}
