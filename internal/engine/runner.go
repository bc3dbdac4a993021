// Package engine invokes the external physics engine. The engine is a
// black box: this package only builds its command line, captures its
// output, and classifies its exit status.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrEngineFailed marks a fatal engine-level error (numerical instability,
// resource exhaustion). Never retried; the caller halts remaining phases
// for the affected case.
var ErrEngineFailed = errors.New("engine: run failed")

// logTailLines is how much engine output a failure carries for diagnosis.
const logTailLines = 20

// FailureError wraps an engine failure with enough context to diagnose it.
type FailureError struct {
	Dir      string
	ExitCode int
	LogTail  string
	Wrapped  error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("engine: run in %s exited with code %d", e.Dir, e.ExitCode)
}

func (e *FailureError) Unwrap() error {
	return e.Wrapped
}

// Runner executes one engine phase in a prepared directory containing
// config.yaml and components.yaml.
type Runner interface {
	Run(ctx context.Context, dir string) error
}

// ExecRunner shells out to the engine binary, one process per phase,
// sequentially. Engine stdout and stderr are captured into the phase's
// log file.
type ExecRunner struct {
	Command string
	Args    []string // extra arguments placed before --path
	Logger  *slog.Logger
}

// NewExecRunner builds a runner for the given engine command.
func NewExecRunner(command string, logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{Command: command, Logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, dir string) error {
	logPath := filepath.Join(dir, "run.log")
	logFile, err := os.Create(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	args := append(append([]string{}, r.Args...), "--path", dir)
	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	r.Logger.Info("starting engine", "command", r.Command, "dir", dir)
	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		r.Logger.Error("engine failed", "dir", dir, "exit_code", exitCode, "elapsed", elapsed)
		return &FailureError{
			Dir:      dir,
			ExitCode: exitCode,
			LogTail:  tailFile(logPath, logTailLines),
			Wrapped:  fmt.Errorf("%w: %v", ErrEngineFailed, err),
		}
	}

	r.Logger.Info("engine finished", "dir", dir, "elapsed", elapsed)
	return nil
}

func tailFile(path string, lines int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	all := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	return strings.Join(all, "\n")
}
