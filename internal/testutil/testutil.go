// Package testutil provides shared test helpers used across packages.
package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/zhubert/toolhost/internal/model"
)

// DiscardLogger returns a slog.Logger that discards all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDefinitions returns a minimal definition set suitable for unit tests.
func TestDefinitions() []model.ServerDefinition {
	return []model.ServerDefinition{
		{Name: "alpha", Command: "alpha-server", Enabled: true},
		{Name: "beta", Command: "beta-server", Enabled: true},
	}
}

// EchoToolServer starts an httptest server speaking the tool-server wire
// protocol: POST /tool with {"method", "params"} answered with
// {"method": ..., "echo": params}. Returns the server and its port.
// The server is shut down via t.Cleanup.
func EchoToolServer(t *testing.T) (*httptest.Server, int) {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tool" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"method": req.Method,
			"echo":   req.Params,
		})
	}))
	t.Cleanup(ts.Close)

	return ts, ServerPort(t, ts)
}

// ServerPort extracts the TCP port an httptest server is listening on.
func ServerPort(t *testing.T, ts *httptest.Server) int {
	t.Helper()
	idx := strings.LastIndex(ts.URL, ":")
	if idx < 0 {
		t.Fatalf("unexpected test server URL %q", ts.URL)
	}
	port, err := strconv.Atoi(ts.URL[idx+1:])
	if err != nil {
		t.Fatalf("unexpected test server URL %q: %v", ts.URL, err)
	}
	return port
}
