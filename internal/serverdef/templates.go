package serverdef

import "github.com/zhubert/toolhost/internal/model"

// template holds the launch recipe for a known provider name.
type template struct {
	command string
	args    []string
	env     map[string]string
}

// providerTemplates maps provider names to launch recipes for the
// reference server implementations. Env values left empty here mean
// "strip this variable from the child environment unless the user
// supplies a value" (see the launcher's env composition).
var providerTemplates = map[string]template{
	"github": {
		command: "npx",
		args:    []string{"-y", "@modelcontextprotocol/server-github"},
	},
	"filesystem": {
		command: "npx",
		args:    []string{"-y", "@modelcontextprotocol/server-filesystem"},
	},
	"fetch": {
		command: "npx",
		args:    []string{"-y", "@modelcontextprotocol/server-fetch"},
	},
	"puppeteer": {
		command: "npx",
		args:    []string{"-y", "@modelcontextprotocol/server-puppeteer"},
	},
	"sequential-thinking": {
		command: "npx",
		args:    []string{"-y", "@modelcontextprotocol/server-sequential-thinking"},
	},
	"brave-search": {
		command: "npx",
		args:    []string{"-y", "@modelcontextprotocol/server-brave-search"},
		env:     map[string]string{"BRAVE_API_KEY": ""},
	},
}

// ExpandProvider turns a provider/capability entry into a full server
// definition. Known provider names use their built-in template;
// unrecognized names fall back to the npx naming convention the reference
// servers follow. Pure function, no I/O.
func ExpandProvider(name string, enabled bool, tools []string) model.ServerDefinition {
	tmpl, ok := providerTemplates[name]
	if !ok {
		tmpl = template{
			command: "npx",
			args:    []string{"-y", "@modelcontextprotocol/server-" + name},
		}
	}
	return model.ServerDefinition{
		Name:    name,
		Command: tmpl.command,
		Args:    append([]string(nil), tmpl.args...),
		Env:     cloneEnv(tmpl.env),
		Enabled: enabled,
		Tools:   tools,
	}
}

// Defaults is the built-in fallback set used when no configuration source
// parses. Covers basic file access and web fetch so a bare install still
// has capabilities to route to.
func Defaults() []model.ServerDefinition {
	return []model.ServerDefinition{
		ExpandProvider("filesystem", true, nil),
		ExpandProvider("fetch", true, nil),
	}
}

func cloneEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
