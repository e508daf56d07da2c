// Package inventory collects the local skill inventory and applies install
// and remove actions through the external skills CLI.
package inventory

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes the skills CLI. It exists so tests can substitute canned
// output for process invocation.
type Runner interface {
	// Run executes name with args and returns its stdout.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// Run executes the command and returns stdout. Stderr is folded into the
// error message on failure.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 - name comes from configuration
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return nil, fmt.Errorf("%s %v: %w: %s", name, args, err, msg)
		}
		return nil, fmt.Errorf("%s %v: %w", name, args, err)
	}
	return stdout.Bytes(), nil
}
