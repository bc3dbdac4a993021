package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CheckResult reports whether the engine binary is usable.
type CheckResult struct {
	Command   string
	Path      string
	Version   string
	Available bool
	Err       error
}

// Check probes for the engine binary on PATH and asks it for a version
// string. A missing or broken engine is reported, not fatal: setup and
// analysis work without it.
func Check(ctx context.Context, command string) CheckResult {
	res := CheckResult{Command: command}

	path, err := exec.LookPath(command)
	if err != nil {
		res.Err = fmt.Errorf("engine: %q not found on PATH", command)
		return res
	}
	res.Path = path

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, command, "--version").CombinedOutput()
	if err != nil {
		res.Err = fmt.Errorf("engine: %s --version: %w", command, err)
		return res
	}

	res.Version = strings.TrimSpace(string(out))
	res.Available = true
	return res
}
