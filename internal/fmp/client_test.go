package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/fmp-mcp/internal/common"
	"github.com/bobmcallan/fmp-mcp/internal/config"
)

func testConfig(baseURL, apiKey string) *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.FMP.BaseURL = baseURL
	cfg.FMP.APIKey = apiKey
	return cfg
}

func testClient(baseURL, apiKey string) *Client {
	return NewClient(testConfig(baseURL, apiKey), common.NewSilentLogger())
}

func TestClient_Get_Success(t *testing.T) {
	payload := `[{"symbol":"AAPL","price":185.5}]`
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/quote" {
			t.Errorf("Expected /quote, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("Expected symbol=AAPL, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "test-key")
	body, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The body passes through byte-exact
	if string(body) != payload {
		t.Errorf("Expected body %q, got %q", payload, string(body))
	}
}

func TestClient_Get_InjectsAPIKey(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apikey"); got != "secret-123" {
			t.Errorf("Expected apikey=secret-123, got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "secret-123")
	if _, err := client.Get(context.Background(), "profile", url.Values{"symbol": {"AAPL"}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_Get_NoKeyOmitsParam(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, present := r.URL.Query()["apikey"]; present {
			t.Error("Expected no apikey parameter when no key is configured")
		}
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "")
	if _, err := client.Get(context.Background(), "search-symbol", url.Values{"query": {"AAPL"}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClient_Get_DoesNotMutateParams(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	params := url.Values{"query": {"apple"}}
	client := testClient(mockServer.URL, "secret-123")
	if _, err := client.Get(context.Background(), "search-name", params); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, leaked := params["apikey"]; leaked {
		t.Error("Get leaked the apikey into the caller's params")
	}
	if len(params) != 1 || params.Get("query") != "apple" {
		t.Errorf("Caller params were modified: %v", params)
	}
}

func TestClient_Get_Unauthorized(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"Error Message": "Invalid API KEY. Please retry or visit our documentation"}`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "secret-123")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Kind != KindUpstream {
		t.Errorf("Expected KindUpstream, got %v", fmpErr.Kind)
	}
	if fmpErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", fmpErr.Status)
	}
	if !strings.Contains(err.Error(), "Invalid API KEY") {
		t.Errorf("Expected provider detail in message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "secret-123") {
		t.Errorf("API key leaked into error message: %q", err.Error())
	}
}

func TestClient_Get_ErrorBodyEchoingKeyIsScrubbed(t *testing.T) {
	// A misbehaving provider may echo the request back, key included.
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "bad request: apikey=secret-123 rejected"}`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "secret-123")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}
	if strings.Contains(err.Error(), "secret-123") {
		t.Errorf("API key leaked into error message: %q", err.Error())
	}
	if !strings.Contains(err.Error(), redacted) {
		t.Errorf("Expected %s placeholder in message, got %q", redacted, err.Error())
	}
}

func TestClient_Get_ServerErrorJSONDetail(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "endpoint not found"})
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "test-key")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", fmpErr.Status)
	}
	if !strings.Contains(fmpErr.Message, "endpoint not found") {
		t.Errorf("Expected 'endpoint not found' detail, got %q", fmpErr.Message)
	}
}

func TestClient_Get_ServerErrorNonJSONBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "test-key")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Kind != KindUpstream {
		t.Errorf("Expected KindUpstream, got %v", fmpErr.Kind)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected status in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "internal server error") {
		t.Errorf("Expected raw body in message, got %q", err.Error())
	}
}

func TestClient_Get_Unavailable(t *testing.T) {
	client := testClient("http://localhost:1", "secret-123")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected error when provider is unreachable")
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Kind != KindUnavailable {
		t.Errorf("Expected KindUnavailable, got %v", fmpErr.Kind)
	}
	if fmpErr.Status != 0 {
		t.Errorf("Expected no status for transport failure, got %d", fmpErr.Status)
	}
	// Transport errors embed the request URL; the key must be scrubbed
	if strings.Contains(err.Error(), "secret-123") {
		t.Errorf("API key leaked into transport error: %q", err.Error())
	}
}

func TestClient_Get_Timeout(t *testing.T) {
	release := make(chan struct{})
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer mockServer.Close()
	defer close(release)

	cfg := testConfig(mockServer.URL, "secret-123")
	cfg.FMP.TimeoutSeconds = 1
	client := NewClient(cfg, common.NewSilentLogger())

	start := time.Now()
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Expected timeout error")
	}
	if elapsed > 5*time.Second {
		t.Errorf("Timeout took %v, expected it bounded near 1s", elapsed)
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Kind != KindUnavailable {
		t.Errorf("Expected KindUnavailable for timeout, got %v", fmpErr.Kind)
	}
	if strings.Contains(err.Error(), "secret-123") {
		t.Errorf("API key leaked into timeout error: %q", err.Error())
	}
}

func TestClient_Get_NonJSONSuccessBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "test-key")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected error for non-JSON success body")
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Kind != KindProtocol {
		t.Errorf("Expected KindProtocol, got %v", fmpErr.Kind)
	}
	if fmpErr.Status != http.StatusOK {
		t.Errorf("Expected status 200 recorded, got %d", fmpErr.Status)
	}
}

func TestClient_Get_EmptySuccessBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "test-key")
	_, err := client.Get(context.Background(), "quote", url.Values{"symbol": {"AAPL"}})
	if err == nil {
		t.Fatal("Expected protocol error for empty success body")
	}

	var fmpErr *Error
	if !errors.As(err, &fmpErr) {
		t.Fatalf("Expected *fmp.Error, got %T", err)
	}
	if fmpErr.Kind != KindProtocol {
		t.Errorf("Expected KindProtocol, got %v", fmpErr.Kind)
	}
}

func TestClient_Get_NilParams(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/historical-price-eod/full/AAPL" {
			t.Errorf("Expected path endpoint, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"symbol":"AAPL","historical":[]}`))
	}))
	defer mockServer.Close()

	client := testClient(mockServer.URL, "test-key")
	body, err := client.Get(context.Background(), "historical-price-eod/full/AAPL", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("Expected non-empty body")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	cfg := testConfig("http://example.com/stable/", "k")
	client := NewClient(cfg, common.NewSilentLogger())
	if client.BaseURL() != "http://example.com/stable" {
		t.Errorf("Expected trimmed base URL, got %s", client.BaseURL())
	}
}

func TestNewClient_HasKey(t *testing.T) {
	if testClient("http://example.com", "k").HasKey() != true {
		t.Error("Expected HasKey true with key configured")
	}
	if testClient("http://example.com", "").HasKey() != false {
		t.Error("Expected HasKey false without key")
	}
}

func TestErrorKind_Messages(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: KindUpstream, Status: 401, Message: "Invalid API KEY"}, "upstream error (status 401): Invalid API KEY"},
		{&Error{Kind: KindUnavailable, Message: "connection refused"}, "upstream unavailable: connection refused"},
		{&Error{Kind: KindProtocol, Status: 200, Message: "not JSON"}, "upstream protocol error (status 200): not JSON"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}
