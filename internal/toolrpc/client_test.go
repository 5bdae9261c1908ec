package toolrpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zhubert/toolhost/internal/testutil"
)

func TestCallRoundTrip(t *testing.T) {
	var gotRequestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if r.URL.Path != "/tool" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer ts.Close()

	c := NewClient(0)
	result, err := c.Call(context.Background(), testutil.ServerPort(t, ts), "search", map[string]any{"q": "x"}, "req-123")
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	m, ok := result.(map[string]any)
	if !ok || m["ok"] != true {
		t.Errorf("unexpected result: %#v", result)
	}
	if gotRequestID != "req-123" {
		t.Errorf("request id not propagated, got %q", gotRequestID)
	}
}

func TestCallEchoWireFormat(t *testing.T) {
	_, port := testutil.EchoToolServer(t)

	c := NewClient(0)
	result, err := c.Call(context.Background(), port, "lookup", map[string]any{"key": "value"}, "")
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	m := result.(map[string]any)
	if m["method"] != "lookup" {
		t.Errorf("method not sent on the wire: %#v", m)
	}
	echo, _ := m["echo"].(map[string]any)
	if echo["key"] != "value" {
		t.Errorf("params not sent on the wire: %#v", m)
	}
}

func TestCallErrorResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tool exploded", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(0)
	_, err := c.Call(context.Background(), testutil.ServerPort(t, ts), "boom", nil, "")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "tool exploded") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

func TestCallTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer ts.Close()

	c := NewClient(50 * time.Millisecond)
	start := time.Now()
	_, err := c.Call(context.Background(), testutil.ServerPort(t, ts), "slow", nil, "")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("call did not respect the timeout, took %v", elapsed)
	}
}

func TestCallConnectionRefused(t *testing.T) {
	// Grab a port and close it so nothing is listening there.
	ts := httptest.NewServer(http.NotFoundHandler())
	port := testutil.ServerPort(t, ts)
	ts.Close()

	c := NewClient(time.Second)
	if _, err := c.Call(context.Background(), port, "any", nil, ""); err == nil {
		t.Fatal("expected an error when nothing is listening")
	}
}
