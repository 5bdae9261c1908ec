package serverdef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/toolhost/internal/testutil"
)

func TestParseServerMap(t *testing.T) {
	data := []byte(`
servers:
  github:
    command: npx
    args: ["-y", "@modelcontextprotocol/server-github"]
    env:
      GITHUB_TOKEN: secret
    tools: [searchCode]
  local:
    command: ./bin/local-server
    enabled: false
`)
	defs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}

	gh := defs[0]
	if gh.Name != "github" || gh.Command != "npx" {
		t.Errorf("unexpected first definition: %+v", gh)
	}
	if !gh.Enabled {
		t.Error("enabled should default to true")
	}
	if gh.Env["GITHUB_TOKEN"] != "secret" {
		t.Errorf("env not carried: %v", gh.Env)
	}
	if !gh.HasTool("searchCode") {
		t.Error("tools not carried")
	}
	if defs[1].Enabled {
		t.Error("explicit enabled: false should stick")
	}
}

func TestParseMCPServersCompat(t *testing.T) {
	// JSON is a YAML subset; existing mcpServers configs parse unchanged.
	data := []byte(`{"mcpServers": {"fetch": {"command": "uvx", "args": ["mcp-server-fetch"]}}}`)
	defs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "fetch" || defs[0].Command != "uvx" {
		t.Fatalf("unexpected definitions: %+v", defs)
	}
}

func TestParsePreservesDefinitionOrder(t *testing.T) {
	data := []byte(`
servers:
  zeta: {command: z}
  alpha: {command: a}
  mid: {command: m}
`)
	defs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var names []string
	for _, d := range defs {
		names = append(names, d.Name)
	}
	if got := strings.Join(names, ","); got != "zeta,alpha,mid" {
		t.Errorf("definition order not preserved: %s", got)
	}
}

func TestParseProviderMap(t *testing.T) {
	data := []byte(`
providers:
  github:
    tools: [searchCode, getFile]
  custom-thing:
    enabled: true
`)
	defs, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}

	gh := defs[0]
	if gh.Command != "npx" {
		t.Errorf("github template not applied: %+v", gh)
	}
	if !gh.HasTool("getFile") {
		t.Error("provider tools not carried")
	}

	// Unknown providers fall back to the npx naming convention.
	custom := defs[1]
	if custom.Command != "npx" || custom.Args[len(custom.Args)-1] != "@modelcontextprotocol/server-custom-thing" {
		t.Errorf("fallback template not applied: %+v", custom)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing command", `servers: {broken: {args: [x]}}`},
		{"no recognized map", `other: {}`},
		{"not yaml", `{{{{`},
		{"server map not a mapping", `servers: [a, b]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadFirstParseableWins(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	good := filepath.Join(dir, "good.yaml")
	alsoGood := filepath.Join(dir, "also-good.yaml")
	os.WriteFile(broken, []byte("{{{{"), 0o644)
	os.WriteFile(good, []byte("servers: {first: {command: one}}"), 0o644)
	os.WriteFile(alsoGood, []byte("servers: {second: {command: two}}"), 0o644)

	defs := Load(testutil.DiscardLogger(),
		filepath.Join(dir, "missing.yaml"), broken, good, alsoGood)
	if len(defs) != 1 || defs[0].Name != "first" {
		t.Fatalf("expected the first parseable source to win, got %+v", defs)
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	defs := Load(testutil.DiscardLogger(), filepath.Join(t.TempDir(), "nope.yaml"))
	if len(defs) == 0 {
		t.Fatal("expected built-in defaults when nothing parses")
	}
	for _, d := range defs {
		if d.Command == "" {
			t.Errorf("default %q has no command", d.Name)
		}
	}
}

func TestDefaultCandidatePathsEnvOverride(t *testing.T) {
	t.Setenv("TOOLHOST_CONFIG", "/tmp/explicit.yaml")
	t.Setenv("TOOLHOST_HOME", "/tmp/home")

	paths := DefaultCandidatePaths()
	if len(paths) < 3 {
		t.Fatalf("too few candidate paths: %v", paths)
	}
	if paths[0] != "/tmp/explicit.yaml" {
		t.Errorf("TOOLHOST_CONFIG should come first, got %v", paths)
	}
	if paths[1] != filepath.Join("/tmp/home", "config.yaml") {
		t.Errorf("home config.yaml should come second, got %v", paths)
	}
}

func TestExpandProvider(t *testing.T) {
	def := ExpandProvider("brave-search", true, []string{"search"})
	if def.Command != "npx" {
		t.Errorf("unexpected command %q", def.Command)
	}
	if _, ok := def.Env["BRAVE_API_KEY"]; !ok {
		t.Error("template env not carried")
	}
	if !def.HasTool("search") {
		t.Error("tools not carried")
	}

	// Each expansion must get its own slices; templates are shared state.
	a := ExpandProvider("github", true, nil)
	b := ExpandProvider("github", true, nil)
	a.Args[0] = "mutated"
	if b.Args[0] == "mutated" {
		t.Error("expansions share an args slice")
	}
}
