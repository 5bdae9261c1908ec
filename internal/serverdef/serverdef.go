// Package serverdef loads tool-server definitions from configuration.
//
// Two document shapes are accepted and normalized into the same
// model.ServerDefinition form:
//
//   - a direct server map (under "servers", or "mcpServers" for
//     compatibility with existing MCP config files):
//     servers:
//       github:
//         command: npx
//         args: ["-y", "@modelcontextprotocol/server-github"]
//         env: {GITHUB_TOKEN: "..."}
//
//   - a provider map, expanded through built-in templates:
//     providers:
//       github:
//         enabled: true
//         tools: [searchCode, getFile]
//
// Candidate paths are tried in priority order and the first document that
// parses wins; sources are never merged. A missing or malformed source is
// skipped, and when nothing parses a built-in default set is returned so
// startup never fails on configuration alone.
package serverdef

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/toolhost/internal/hoststate"
	"github.com/zhubert/toolhost/internal/model"
)

// document is the tagged union of the two accepted config shapes.
// Mapping values are kept as raw yaml nodes so key order survives decoding;
// definition order determines deterministic port assignment downstream.
type document struct {
	Servers    yaml.Node `yaml:"servers"`
	MCPServers yaml.Node `yaml:"mcpServers"`
	Providers  yaml.Node `yaml:"providers"`
}

// serverEntry is one value in a direct server map.
type serverEntry struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
	Enabled *bool             `yaml:"enabled"`
	Tools   []string          `yaml:"tools"`
}

// providerEntry is one value in a provider/capability map.
type providerEntry struct {
	Enabled *bool    `yaml:"enabled"`
	Tools   []string `yaml:"tools"`
}

// Load tries each candidate path in order and returns the definitions from
// the first source that parses. Unreadable or malformed files are logged
// and skipped. When no source yields definitions, the built-in defaults
// are returned; Load never fails.
func Load(logger *slog.Logger, candidates ...string) []model.ServerDefinition {
	for _, path := range candidates {
		defs, err := ParseFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("skipping server config", "path", path, "error", err)
			}
			continue
		}
		if len(defs) == 0 {
			logger.Warn("server config contains no definitions", "path", path)
			continue
		}
		logger.Info("loaded server definitions", "path", path, "count", len(defs))
		return defs
	}
	logger.Warn("no usable server configuration found, using built-in defaults")
	return Defaults()
}

// ParseFile reads and parses a single config file into definitions.
func ParseFile(path string) ([]model.ServerDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a config document in either accepted shape.
// JSON documents parse here too, JSON being a YAML subset.
func Parse(data []byte) ([]model.ServerDefinition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	servers := &doc.Servers
	if servers.Kind == 0 {
		servers = &doc.MCPServers
	}
	if servers.Kind != 0 {
		return parseServerMap(servers)
	}
	if doc.Providers.Kind != 0 {
		return parseProviderMap(&doc.Providers)
	}
	return nil, fmt.Errorf("config has neither a server map nor a provider map")
}

func parseServerMap(node *yaml.Node) ([]model.ServerDefinition, error) {
	var defs []model.ServerDefinition
	err := eachMappingEntry(node, func(name string, value *yaml.Node) error {
		var entry serverEntry
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("server %q: %w", name, err)
		}
		if entry.Command == "" {
			return fmt.Errorf("server %q has no command", name)
		}
		defs = append(defs, model.ServerDefinition{
			Name:    name,
			Command: entry.Command,
			Args:    entry.Args,
			Env:     entry.Env,
			Enabled: entry.Enabled == nil || *entry.Enabled,
			Tools:   entry.Tools,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func parseProviderMap(node *yaml.Node) ([]model.ServerDefinition, error) {
	var defs []model.ServerDefinition
	err := eachMappingEntry(node, func(name string, value *yaml.Node) error {
		var entry providerEntry
		if err := value.Decode(&entry); err != nil {
			return fmt.Errorf("provider %q: %w", name, err)
		}
		defs = append(defs, ExpandProvider(name, entry.Enabled == nil || *entry.Enabled, entry.Tools))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// eachMappingEntry walks a yaml mapping node in document order.
func eachMappingEntry(node *yaml.Node, fn func(name string, value *yaml.Node) error) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected a mapping, got yaml kind %d", node.Kind)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// DefaultCandidatePaths returns the config locations tried at startup, in
// priority order. TOOLHOST_CONFIG prepends an explicit path; the legacy
// ~/.mcp/config.json location is kept last so existing MCP setups work
// without copying anything.
func DefaultCandidatePaths() []string {
	var paths []string
	if p := os.Getenv("TOOLHOST_CONFIG"); p != "" {
		paths = append(paths, p)
	}
	if home, err := hoststate.HomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, "config.yaml"),
			filepath.Join(home, "config.json"),
		)
	}
	if userHome, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(userHome, ".mcp", "config.json"))
	}
	return paths
}
