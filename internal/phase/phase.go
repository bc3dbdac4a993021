// Package phase sequences the engine invocations for one case as an
// explicit state machine: each phase has a status and an artifact
// precondition instead of ad hoc flag checks.
package phase

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Phase is one stage of a case's lifecycle.
type Phase int

const (
	Minimize Phase = iota
	Equilibrate
	Produce
	Analyze
)

var phaseNames = [...]string{"minimize", "equilibrate", "produce", "analyze"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Dir returns the directory a phase runs in, relative to the case dir.
// Analysis reads and writes inside the production directory.
func (p Phase) Dir() string {
	switch p {
	case Minimize:
		return "minimization"
	case Equilibrate:
		return "equilibration"
	case Produce, Analyze:
		return "production"
	}
	return ""
}

// Status of a phase within a run.
type Status int

const (
	Pending Status = iota
	Skipped
	Running
	Done
	Failed
)

var statusNames = [...]string{"pending", "skipped", "running", "done", "failed"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ErrMissingArtifact indicates a phase's required input file does not
// exist, e.g. analysis requested before production ran.
var ErrMissingArtifact = errors.New("phase: required artifact missing")

// checkpointFile is the final-coordinate snapshot each phase leaves behind
// and the next phase starts from.
const checkpointFile = "restart.chk"

// Checkpoint returns the checkpoint path a completed phase leaves in its
// directory.
func Checkpoint(caseDir string, p Phase) string {
	return filepath.Join(caseDir, p.Dir(), checkpointFile)
}

// Precondition verifies the artifacts a phase needs before it can run.
func Precondition(caseDir string, p Phase) error {
	switch p {
	case Minimize:
		return requireFiles(p, filepath.Join(caseDir, p.Dir(), "config.yaml"),
			filepath.Join(caseDir, p.Dir(), "components.yaml"))
	case Equilibrate:
		return requireFiles(p, Checkpoint(caseDir, Minimize))
	case Produce:
		return requireFiles(p, Checkpoint(caseDir, Equilibrate))
	case Analyze:
		if _, err := FindTrajectory(filepath.Join(caseDir, Produce.Dir())); err != nil {
			return err
		}
		_, err := FindTopology(filepath.Join(caseDir, Produce.Dir()))
		return err
	}
	return nil
}

func requireFiles(p Phase, paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s needs %s", ErrMissingArtifact, p, path)
		}
	}
	return nil
}

// FindTrajectory locates the engine's trajectory output in a phase dir.
func FindTrajectory(dir string) (string, error) {
	return findSuffix(dir, ".dcd", "trajectory")
}

// FindTopology locates the engine's structure output in a phase dir.
func FindTopology(dir string) (string, error) {
	return findSuffix(dir, ".pdb", "topology")
}

func findSuffix(dir, suffix, kind string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: no %s in %s", ErrMissingArtifact, kind, dir)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("%w: no %s (*%s) in %s", ErrMissingArtifact, kind, suffix, dir)
}
