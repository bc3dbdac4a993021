package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/vaishnavey/CALVADOS-poly/internal/config"
	"github.com/vaishnavey/CALVADOS-poly/internal/contacts"
	"github.com/vaishnavey/CALVADOS-poly/internal/engine"
	"github.com/vaishnavey/CALVADOS-poly/internal/phase"
	"github.com/vaishnavey/CALVADOS-poly/internal/report"
	"github.com/vaishnavey/CALVADOS-poly/internal/system"
	"github.com/vaishnavey/CALVADOS-poly/internal/traj"
	"github.com/vaishnavey/CALVADOS-poly/internal/tui"
)

var (
	rootDir   string
	engineCmd string
	caseFlag  string
	seed      int64

	skipMinimization  bool
	skipEquilibration bool
	skipProduction    bool
	setupOnly         bool
	analyzeOnly       bool

	trajPath     string
	topPath      string
	cutoff       float64
	outputPrefix string
	termPlot     bool

	watch bool
)

func main() {
	logger := slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	)
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "polysim",
		Short: "polymer crosslinking simulation pipeline",
	}
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "simulation root directory")
	rootCmd.PersistentFlags().StringVar(&engineCmd, "engine", config.DefaultEngine, "external engine command")

	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "generate case directories and engine configs",
		RunE:  runSetup,
	}
	setupCmd.Flags().StringVar(&caseFlag, "case", "both", "which case to set up: a, b, or both")
	setupCmd.Flags().Int64Var(&seed, "seed", 2024, "chain placement seed")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the full pipeline: setup, phases, analysis",
		RunE:  runPipeline,
	}
	runCmd.Flags().StringVar(&caseFlag, "case", "both", "which case to run: a, b, or both")
	runCmd.Flags().Int64Var(&seed, "seed", 2024, "chain placement seed")
	runCmd.Flags().BoolVar(&skipMinimization, "skip-minimization", false, "skip minimization phase")
	runCmd.Flags().BoolVar(&skipEquilibration, "skip-equilibration", false, "skip equilibration phase")
	runCmd.Flags().BoolVar(&skipProduction, "skip-production", false, "skip production phase")
	runCmd.Flags().BoolVar(&setupOnly, "setup-only", false, "only generate configs, do not run simulations")
	runCmd.Flags().BoolVar(&analyzeOnly, "analyze-only", false, "only run crosslinking analysis")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "analyze crosslinking contacts in a trajectory",
		RunE:  runAnalyzeCmd,
	}
	analyzeCmd.Flags().StringVar(&trajPath, "traj", "", "trajectory file (.dcd)")
	analyzeCmd.Flags().StringVar(&topPath, "top", "", "topology file (.pdb)")
	analyzeCmd.Flags().Float64Var(&cutoff, "cutoff", config.DefaultCutoff, "contact cutoff in nm")
	analyzeCmd.Flags().StringVar(&outputPrefix, "output", "crosslinking_analysis", "output prefix")
	analyzeCmd.Flags().BoolVar(&termPlot, "plot", false, "print terminal time-series plot")
	analyzeCmd.MarkFlagRequired("traj")
	analyzeCmd.MarkFlagRequired("top")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "show the phase status tables",
		RunE:  runStatus,
	}
	statusCmd.Flags().StringVar(&caseFlag, "case", "both", "which case to show: a, b, or both")
	statusCmd.Flags().BoolVar(&watch, "watch", false, "live view, refreshed every second")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "verify the external engine is available",
		RunE:  runCheck,
	}

	rootCmd.AddCommand(setupCmd, runCmd, analyzeCmd, statusCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func selectedCases() ([]*config.Case, error) {
	switch caseFlag {
	case "a", "b":
		cs, err := config.GetCase(caseFlag)
		if err != nil {
			return nil, err
		}
		return []*config.Case{cs}, nil
	case "both":
		a, _ := config.GetCase("a")
		b, _ := config.GetCase("b")
		return []*config.Case{a, b}, nil
	default:
		return nil, fmt.Errorf("unknown case %q: want a, b, or both", caseFlag)
	}
}

func caseDir(cs *config.Case) string {
	return filepath.Join(rootDir, "case_"+cs.ID)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cases, err := selectedCases()
	if err != nil {
		return err
	}

	for _, cs := range cases {
		if err := setupCase(cs); err != nil {
			return fmt.Errorf("setup case %s: %w", cs.ID, err)
		}
	}
	return nil
}

func setupCase(cs *config.Case) error {
	inputDir := filepath.Join(rootDir, "input")
	if err := system.EnsureInputs(inputDir); err != nil {
		return err
	}

	table, seqs, err := system.LoadInputs(inputDir, cs)
	if err != nil {
		return err
	}

	composer := &system.Composer{Case: cs, Table: table, Seqs: seqs, Seed: seed}
	sys, err := composer.Compose()
	if err != nil {
		return err
	}

	if err := system.WriteCaseLayout(caseDir(cs), inputDir, cs, sys); err != nil {
		return err
	}

	slog.Info("setup complete",
		"case", cs.ID,
		"sysname", cs.Sysname,
		"box_nm", cs.BoxL,
		"beads", cs.BeadCount(),
		"net_charge", sys.NetCharge(),
		"production_ns", cs.ProductionConfig().SimulationTimeNs(),
	)
	return nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cases, err := selectedCases()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if analyzeOnly {
		return analyzeCases(ctx, cases)
	}

	for _, cs := range cases {
		if err := setupCase(cs); err != nil {
			return fmt.Errorf("setup case %s: %w", cs.ID, err)
		}
	}
	if setupOnly {
		slog.Info("setup only, not starting simulations")
		return nil
	}

	runner := engine.NewExecRunner(engineCmd, slog.Default())

	// Cases are independent: a failure in one halts its own remaining
	// phases but never the other case.
	var failed []string
	for _, cs := range cases {
		pl := phase.NewPipeline(cs.ID, caseDir(cs), runner, slog.Default(), phase.Options{
			SkipMinimize:    skipMinimization,
			SkipEquilibrate: skipEquilibration,
			SkipProduce:     skipProduction,
			SkipAnalyze:     skipProduction,
		})
		if crosslinkable(cs) {
			pl.Analyzer = func(ctx context.Context, prodDir string) error {
				return analyzeProduction(ctx, prodDir)
			}
		}

		start := time.Now()
		if err := pl.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			slog.Error("case failed", "case", cs.ID, "error", err)
			failed = append(failed, cs.ID)
			continue
		}
		slog.Info("case completed", "case", cs.ID, "elapsed", time.Since(start))
	}

	fmt.Println()
	fmt.Println(tui.RenderAll(rootDir, caseIDs(cases)))

	if len(failed) > 0 {
		return fmt.Errorf("failed cases: %v", failed)
	}
	return nil
}

// crosslinkable reports whether a case has two chain types to measure
// contacts between.
func crosslinkable(cs *config.Case) bool {
	return len(cs.Chains) >= 2
}

func caseIDs(cases []*config.Case) []string {
	ids := make([]string, len(cases))
	for i, cs := range cases {
		ids[i] = cs.ID
	}
	return ids
}

func analyzeCases(ctx context.Context, cases []*config.Case) error {
	ran := false
	for _, cs := range cases {
		if !crosslinkable(cs) {
			continue
		}
		prodDir := filepath.Join(caseDir(cs), phase.Produce.Dir())
		if err := analyzeProduction(ctx, prodDir); err != nil {
			return fmt.Errorf("case %s: %w", cs.ID, err)
		}
		ran = true
	}
	if !ran {
		return fmt.Errorf("no case with two chain types selected; nothing to analyze")
	}
	return nil
}

func analyzeProduction(ctx context.Context, prodDir string) error {
	trajFile, err := phase.FindTrajectory(prodDir)
	if err != nil {
		return err
	}
	topFile, err := phase.FindTopology(prodDir)
	if err != nil {
		return err
	}
	return analyze(trajFile, topFile, config.DefaultCutoff,
		filepath.Join(prodDir, "crosslinking_analysis"), false)
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	for _, path := range []string{trajPath, topPath} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", phase.ErrMissingArtifact, path)
		}
	}
	return analyze(trajPath, topPath, cutoff, outputPrefix, termPlot)
}

func analyze(trajFile, topFile string, cutoff float64, prefix string, plot bool) error {
	top, err := traj.ReadPDB(topFile)
	if err != nil {
		return err
	}
	frames, err := traj.ReadDCD(trajFile)
	if err != nil {
		return err
	}

	groupA, groupB := top.Partition("PAA", "GTA")
	slog.Info("analyzing trajectory",
		"trajectory", trajFile,
		"frames", len(frames),
		"paa_atoms", len(groupA),
		"gta_atoms", len(groupB),
		"cutoff_nm", cutoff,
	)

	res, err := contacts.Analyze(frames, contacts.Params{
		GroupA: groupA,
		GroupB: groupB,
		Cutoff: cutoff,
	})
	if err != nil {
		return err
	}

	written, err := report.WriteAll(prefix, res)
	if err != nil {
		return err
	}
	for _, path := range written {
		slog.Info("wrote analysis artifact", "path", path)
	}

	fmt.Print(report.Summary(res))
	if plot {
		fmt.Println()
		fmt.Println(report.TerminalPlot(res))
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cases, err := selectedCases()
	if err != nil {
		return err
	}
	ids := caseIDs(cases)

	if watch {
		return tui.Watch(rootDir, ids)
	}
	fmt.Println(tui.RenderAll(rootDir, ids))
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	res := engine.Check(cmd.Context(), engineCmd)
	if !res.Available {
		slog.Error("engine unavailable", "command", res.Command, "error", res.Err)
		return res.Err
	}
	slog.Info("engine available", "command", res.Command, "path", res.Path, "version", res.Version)
	return nil
}
