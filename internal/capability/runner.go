package capability

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes a tool and returns its combined stdout and stderr. It is
// the only seam through which detection touches external processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs tools found on PATH.
type ExecRunner struct{}

// Run looks the tool up on PATH and executes it with the given arguments.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", name, err)
	}
	out, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("running %s: %w", name, err)
	}
	return out, nil
}
