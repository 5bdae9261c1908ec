package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	callParams []string
	callJSON   string
)

var callCmd = &cobra.Command{
	Use:     "call <server> <tool>",
	Short:   "Invoke a tool on a server",
	GroupID: "servers",
	Long: `Invoke a tool on a configured server. If the server is not running it is
started first. Parameters can be given as repeated --param key=value
pairs or as a single --json object; --json wins when both are set.`,
	Example: `  toolhost call github search_repositories --param query=toolhost
  toolhost call fetch fetch --json '{"url": "https://example.com"}'`,
	Args: cobra.ExactArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringArrayVar(&callParams, "param", nil, "Tool parameter as key=value (repeatable)")
	callCmd.Flags().StringVar(&callJSON, "json", "", "Tool parameters as a JSON object")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	params, err := parseCallParams()
	if err != nil {
		return err
	}

	sup, err := newSupervisor()
	if err != nil {
		return err
	}

	result, err := sup.CallTool(context.Background(), args[0], args[1], params)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func parseCallParams() (map[string]any, error) {
	if callJSON != "" {
		params := make(map[string]any)
		if err := json.Unmarshal([]byte(callJSON), &params); err != nil {
			return nil, fmt.Errorf("parsing --json: %w", err)
		}
		return params, nil
	}

	params := make(map[string]any, len(callParams))
	for _, kv := range callParams {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", kv)
		}
		params[key] = value
	}
	return params, nil
}
