package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/zhubert/toolhost/internal/hoststate"
	"github.com/zhubert/toolhost/internal/logger"
	"github.com/zhubert/toolhost/internal/serverdef"
	"github.com/zhubert/toolhost/internal/supervisor"
)

// newSupervisor builds a supervisor from the resolved config and the
// persisted process records, so this invocation can manage servers
// launched by a previous one.
func newSupervisor(extra ...supervisor.Option) (*supervisor.Supervisor, error) {
	log := logger.Get()

	candidates := serverdef.DefaultCandidatePaths()
	if configPath != "" {
		candidates = append([]string{configPath}, candidates...)
	}
	defs := serverdef.Load(log, candidates...)

	state, err := hoststate.LoadState()
	if err != nil {
		return nil, err
	}

	opts := []supervisor.Option{supervisor.WithState(state)}
	if basePort > 0 {
		opts = append(opts, supervisor.WithBasePort(basePort))
	}
	opts = append(opts, extra...)

	return supervisor.New(defs, log, opts...), nil
}

// confirm reads a y/N answer from input.
func confirm(input io.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(input)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
