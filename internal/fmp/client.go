// Package fmp is the HTTP client for the Financial Modeling Prep stable API.
// It performs exactly one authenticated GET per call, returns raw JSON
// payloads, and translates every failure into a classified *Error with the
// API key scrubbed from the message.
package fmp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/fmp-mcp/internal/common"
	"github.com/bobmcallan/fmp-mcp/internal/config"
)

// maxResponseSize caps response bodies to prevent OOM from unexpectedly
// large provider payloads. Full historical series stay well under this.
const maxResponseSize = 10 << 20 // 10MB

// redacted replaces the API key wherever it would otherwise leak into an
// error message.
const redacted = "[REDACTED]"

// Client issues GET requests against the FMP API with the configured
// API key injected as the apikey query parameter. The key is read once at
// construction and never logged or echoed.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
}

// NewClient creates a client for the configured FMP base URL. The request
// timeout bounds the single attempt; there are no retries here, since the
// provider enforces a daily quota and retrying a failed call only burns it.
func NewClient(cfg *config.Config, logger *common.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.FMP.BaseURL, "/"),
		apiKey:  cfg.FMP.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.FMP.Timeout(),
		},
		logger: logger,
	}
}

// HasKey reports whether a provider credential is configured. Discovery
// still works without one; calls will come back as provider 401s.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// BaseURL returns the configured provider root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs one GET against the given endpoint (path relative to the
// base URL, e.g. "quote" or "historical-price-eod/full/AAPL") and returns
// the raw JSON body. params must not contain the apikey; the client
// injects it. The passed params are not modified.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, vals := range params {
		for _, v := range vals {
			query.Add(k, v)
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("params", query.Encode()).
		Msg("FMP request")

	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}
	reqURL := c.baseURL + "/" + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Message: c.scrub(err.Error())}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		// Transport errors from net/http embed the full request URL,
		// apikey included, so the message must be scrubbed.
		msg := c.scrub(err.Error())
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", msg).
			Msg("FMP request failed")
		return nil, &Error{Kind: KindUnavailable, Message: msg}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Message: c.scrub("failed to read response: " + err.Error())}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Int("bytes", len(body)).
		Msg("FMP response")

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Kind:    KindUpstream,
			Status:  resp.StatusCode,
			Message: c.scrub(errorDetail(body)),
		}
	}

	if !json.Valid(body) {
		return nil, &Error{
			Kind:    KindProtocol,
			Status:  resp.StatusCode,
			Message: c.scrub("response is not valid JSON: " + snippet(body)),
		}
	}

	return body, nil
}

// errorDetail extracts a meaningful message from a provider error body.
// FMP reports errors as {"Error Message": "..."}; other deployments use
// {"error": "..."} or {"message": "..."}. Falls back to the raw body.
func errorDetail(body []byte) string {
	var errResp struct {
		ErrorMessage string `json:"Error Message"`
		Error        string `json:"error"`
		Message      string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		switch {
		case errResp.ErrorMessage != "":
			return errResp.ErrorMessage
		case errResp.Error != "":
			return errResp.Error
		case errResp.Message != "":
			return errResp.Message
		}
	}
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return "provider returned no detail"
	}
	return snippet([]byte(detail))
}

// snippet shortens a body for inclusion in an error message.
func snippet(body []byte) string {
	const limit = 200
	s := string(body)
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// scrub removes the configured API key from a message. Both the raw and
// query-escaped forms are replaced, since transport errors carry the
// escaped URL.
func (c *Client) scrub(s string) string {
	if c.apiKey == "" {
		return s
	}
	s = strings.ReplaceAll(s, c.apiKey, redacted)
	if esc := url.QueryEscape(c.apiKey); esc != c.apiKey {
		s = strings.ReplaceAll(s, esc, redacted)
	}
	return s
}
