package phase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vaishnavey/CALVADOS-poly/internal/engine"
)

// Step is one row of a case's phase-status table.
type Step struct {
	Phase  Phase
	Status Status
	Err    error
}

// Options select which phases run.
type Options struct {
	SkipMinimize    bool
	SkipEquilibrate bool
	SkipProduce     bool
	SkipAnalyze     bool
}

// AnalyzeFunc runs the trajectory analysis for a completed production dir.
type AnalyzeFunc func(ctx context.Context, prodDir string) error

// Pipeline drives one case through its phases, strictly sequentially.
// Each phase consumes the previous phase's checkpoint; a failure halts the
// remaining phases of this case only.
type Pipeline struct {
	CaseID   string
	CaseDir  string
	Runner   engine.Runner
	Analyzer AnalyzeFunc // nil disables the analyze phase
	Logger   *slog.Logger
	Opts     Options

	steps []Step
}

func NewPipeline(caseID, caseDir string, runner engine.Runner, logger *slog.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		CaseID:  caseID,
		CaseDir: caseDir,
		Runner:  runner,
		Logger:  logger,
		Opts:    opts,
	}
	for _, ph := range []Phase{Minimize, Equilibrate, Produce, Analyze} {
		p.steps = append(p.steps, Step{Phase: ph, Status: Pending})
	}
	return p
}

// Steps returns a copy of the current status table.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

func (p *Pipeline) skipped(ph Phase) bool {
	switch ph {
	case Minimize:
		return p.Opts.SkipMinimize
	case Equilibrate:
		return p.Opts.SkipEquilibrate
	case Produce:
		return p.Opts.SkipProduce
	case Analyze:
		return p.Opts.SkipAnalyze || p.Analyzer == nil
	}
	return false
}

func (p *Pipeline) setStatus(ph Phase, st Status, err error) {
	p.steps[int(ph)].Status = st
	p.steps[int(ph)].Err = err
	if werr := WriteStatus(p.CaseDir, p.CaseID, p.steps); werr != nil {
		p.Logger.Warn("could not persist status", "case", p.CaseID, "error", werr)
	}
}

// Run executes the phase sequence. The first failure is returned with its
// case and phase context; later phases of this case are left Pending.
func (p *Pipeline) Run(ctx context.Context) error {
	for _, ph := range []Phase{Minimize, Equilibrate, Produce, Analyze} {
		if p.skipped(ph) {
			p.Logger.Info("phase skipped", "case", p.CaseID, "phase", ph.String())
			p.setStatus(ph, Skipped, nil)
			continue
		}

		if err := p.runPhase(ctx, ph); err != nil {
			p.setStatus(ph, Failed, err)
			return fmt.Errorf("case %s, phase %s: %w", p.CaseID, ph, err)
		}
		p.setStatus(ph, Done, nil)
	}
	return nil
}

func (p *Pipeline) runPhase(ctx context.Context, ph Phase) error {
	if err := Precondition(p.CaseDir, ph); err != nil {
		return err
	}
	p.setStatus(ph, Running, nil)

	if ph == Analyze {
		return p.Analyzer(ctx, filepath.Join(p.CaseDir, Produce.Dir()))
	}

	// Hand the prior phase's final coordinates to this one. The
	// precondition above guarantees the source exists even when the
	// prior phase was skipped on this invocation.
	if prev, ok := priorPhase(ph); ok {
		if err := copyFile(Checkpoint(p.CaseDir, prev), Checkpoint(p.CaseDir, ph)); err != nil {
			return err
		}
	}

	return p.Runner.Run(ctx, filepath.Join(p.CaseDir, ph.Dir()))
}

func priorPhase(ph Phase) (Phase, bool) {
	switch ph {
	case Equilibrate:
		return Minimize, true
	case Produce:
		return Equilibrate, true
	}
	return 0, false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// StepStatus is the serialized form of one status table row.
type StepStatus struct {
	Phase  string `json:"phase"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// CaseStatus is the persisted phase-status table for one case, written
// after every transition so `status` can observe a run in progress.
type CaseStatus struct {
	Case    string       `json:"case"`
	Updated time.Time    `json:"updated"`
	Steps   []StepStatus `json:"steps"`
}

const statusFile = "status.json"

// WriteStatus persists the status table into the case directory.
func WriteStatus(caseDir, caseID string, steps []Step) error {
	cs := CaseStatus{Case: caseID, Updated: time.Now()}
	for _, s := range steps {
		row := StepStatus{Phase: s.Phase.String(), Status: s.Status.String()}
		if s.Err != nil {
			row.Error = s.Err.Error()
		}
		cs.Steps = append(cs.Steps, row)
	}

	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(caseDir, statusFile), data, 0644)
}

// ReadStatus loads a persisted status table, if any.
func ReadStatus(caseDir string) (*CaseStatus, error) {
	data, err := os.ReadFile(filepath.Join(caseDir, statusFile))
	if err != nil {
		return nil, err
	}
	var cs CaseStatus
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}
