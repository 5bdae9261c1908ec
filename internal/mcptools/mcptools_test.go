package mcptools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zhubert/toolhost/internal/model"
	"github.com/zhubert/toolhost/internal/supervisor"
	"github.com/zhubert/toolhost/internal/testutil"
)

func newTestSup(t *testing.T) *supervisor.Supervisor {
	t.Helper()
	defs := []model.ServerDefinition{
		{Name: "idler", Command: "sleep", Args: []string{"60"}, Enabled: true, Tools: []string{"wait"}},
		{Name: "dormant", Command: "sleep", Args: []string{"60"}, Enabled: false},
	}
	sup := supervisor.New(defs, testutil.DiscardLogger(),
		supervisor.WithLogDir(t.TempDir()),
		supervisor.WithGraceWindow(150*time.Millisecond),
	)
	t.Cleanup(func() { sup.Stop("idler") })
	return sup
}

// makeReq builds a CallToolRequest with the given arguments.
func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if r == nil || len(r.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := r.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", r.Content[0])
	}
	return tc.Text
}

func TestNewServerRegistersTools(t *testing.T) {
	if s := NewServer(newTestSup(t)); s == nil {
		t.Fatal("NewServer returned nil")
	}
}

func TestListToolHandle(t *testing.T) {
	tool := &ListTool{sup: newTestSup(t)}
	if tool.Definition().Name != "list_servers" {
		t.Errorf("unexpected tool name %q", tool.Definition().Name)
	}

	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "idler (enabled)") {
		t.Errorf("missing enabled server in listing:\n%s", text)
	}
	if !strings.Contains(text, "dormant (disabled)") {
		t.Errorf("missing disabled server in listing:\n%s", text)
	}
	if !strings.Contains(text, "wait") {
		t.Errorf("declared tools not listed:\n%s", text)
	}
}

func TestStartStopStatusTools(t *testing.T) {
	sup := newTestSup(t)
	start := &StartTool{sup: sup}
	stop := &StopTool{sup: sup}
	status := &StatusTool{sup: sup}
	ctx := context.Background()

	res, err := start.Handle(ctx, makeReq(map[string]any{"server": "idler"}))
	if err != nil {
		t.Fatalf("start Handle failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("start reported an error: %s", resultText(t, res))
	}

	res, err = status.Handle(ctx, makeReq(map[string]any{"server": "idler"}))
	if err != nil {
		t.Fatalf("status Handle failed: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, `"running": true`) {
		t.Errorf("status should show the server running:\n%s", text)
	}

	res, err = stop.Handle(ctx, makeReq(map[string]any{"server": "idler"}))
	if err != nil {
		t.Fatalf("stop Handle failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("stop reported an error: %s", resultText(t, res))
	}
}

func TestStartToolMissingArgument(t *testing.T) {
	tool := &StartTool{sup: newTestSup(t)}
	res, err := tool.Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !res.IsError {
		t.Error("missing 'server' should produce a tool error")
	}
}

func TestCallToolHandleBadParams(t *testing.T) {
	tool := &CallTool{sup: newTestSup(t)}
	res, err := tool.Handle(context.Background(), makeReq(map[string]any{
		"server": "idler",
		"tool":   "wait",
		"params": "not an object",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !res.IsError {
		t.Error("non-object params should produce a tool error")
	}
}
