package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCallParams(t *testing.T) {
	t.Run("key value pairs", func(t *testing.T) {
		callParams = []string{"query=sync.Mutex", "limit=10"}
		callJSON = ""
		defer func() { callParams = nil }()

		params, err := parseCallParams()
		if err != nil {
			t.Fatalf("parseCallParams failed: %v", err)
		}
		if params["query"] != "sync.Mutex" || params["limit"] != "10" {
			t.Errorf("unexpected params: %v", params)
		}
	})

	t.Run("json wins", func(t *testing.T) {
		callParams = []string{"ignored=true"}
		callJSON = `{"count": 3}`
		defer func() { callParams = nil; callJSON = "" }()

		params, err := parseCallParams()
		if err != nil {
			t.Fatalf("parseCallParams failed: %v", err)
		}
		if _, ok := params["ignored"]; ok {
			t.Error("--param should be ignored when --json is set")
		}
		if params["count"] != float64(3) {
			t.Errorf("unexpected params: %v", params)
		}
	})

	t.Run("invalid pair", func(t *testing.T) {
		callParams = []string{"no-equals-sign"}
		callJSON = ""
		defer func() { callParams = nil }()

		if _, err := parseCallParams(); err == nil {
			t.Error("expected an error for a malformed --param")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		callJSON = `{broken`
		defer func() { callJSON = "" }()

		if _, err := parseCallParams(); err == nil {
			t.Error("expected an error for malformed --json")
		}
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"Y\n", true},
		{"n\n", false},
		{"\n", false},
		{"whatever\n", false},
	}
	for _, tt := range tests {
		if got := confirm(strings.NewReader(tt.input), "Continue?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestReportBatch(t *testing.T) {
	if err := reportBatch(map[string]error{"a": nil, "b": nil}, "started"); err != nil {
		t.Errorf("all-success batch should not error: %v", err)
	}
	if err := reportBatch(map[string]error{"a": nil, "b": errors.New("no such command")}, "started"); err == nil {
		t.Error("a failed server should surface as an error")
	}
}
