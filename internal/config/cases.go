package config

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Chain pairs a component name with its sequence file and copy count.
type Chain struct {
	Component string
	Resname   string // three-letter residue name in structure files
	Fasta     string // file name under the input directory
	Nmol      int
	Length    int // monomers per chain
}

// Case is one complete simulation setup: the thermodynamic conditions,
// run lengths, and chain composition for a single box.
type Case struct {
	ID            string
	Sysname       string
	BoxL          float64
	Temp          float64
	Ionic         float64
	PH            float64
	TimestepFs    float64
	Steps         int
	EquilSteps    int
	MinimizeSteps int
	SaveEvery     int
	Platform      string
	Chains        []Chain
}

// Cases holds the two study systems: pure polyallylamine and the
// 50/50 polyallylamine + glutaraldehyde mixture.
var Cases = map[string]*Case{
	"a": {
		ID:            "a",
		Sysname:       "case_a_polyallylamine",
		BoxL:          DefaultBoxL,
		Temp:          DefaultTemp,
		Ionic:         DefaultIonic,
		PH:            DefaultPH,
		TimestepFs:    DefaultTimestepFs,
		Steps:         DefaultSteps,
		EquilSteps:    DefaultEquilSteps,
		MinimizeSteps: DefaultMinimizeSteps,
		SaveEvery:     DefaultSaveEvery,
		Platform:      DefaultPlatform,
		Chains: []Chain{
			{Component: "polyallylamine_chain", Resname: "PAA", Fasta: "polyallylamine.fasta", Nmol: 10, Length: 50},
		},
	},
	"b": {
		ID:            "b",
		Sysname:       "case_b_mixed",
		BoxL:          DefaultBoxL,
		Temp:          DefaultTemp,
		Ionic:         DefaultIonic,
		PH:            DefaultPH,
		TimestepFs:    DefaultTimestepFs,
		Steps:         DefaultSteps,
		EquilSteps:    DefaultEquilSteps,
		MinimizeSteps: DefaultMinimizeSteps,
		SaveEvery:     DefaultSaveEvery,
		Platform:      DefaultPlatform,
		Chains: []Chain{
			{Component: "polyallylamine_chain", Resname: "PAA", Fasta: "polyallylamine.fasta", Nmol: 5, Length: 50},
			{Component: "glutaraldehyde_chain", Resname: "GTA", Fasta: "glutaraldehyde.fasta", Nmol: 5, Length: 50},
		},
	},
}

// GetCase looks up a case by ID.
func GetCase(id string) (*Case, error) {
	c, ok := Cases[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown case %q (available: %v)", ErrInvalidConfig, id, ListCases())
	}
	return c, nil
}

// ListCases returns the known case IDs in stable order.
func ListCases() []string {
	ids := make([]string, 0, len(Cases))
	for id := range Cases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Case) base() *Config {
	return &Config{
		Box:        [3]float64{c.BoxL, c.BoxL, c.BoxL},
		Temp:       c.Temp,
		Ionic:      c.Ionic,
		PH:         c.PH,
		TimestepFs: c.TimestepFs,
		Platform:   c.Platform,
		Verbose:    true,
	}
}

// MinimizationConfig builds the engine payload for the minimization phase:
// energy minimization followed by a token number of dynamics steps.
func (c *Case) MinimizationConfig() *Config {
	cfg := c.base()
	cfg.Sysname = c.Sysname + "_min"
	cfg.Minimize = true
	cfg.MinimizeSteps = c.MinimizeSteps
	cfg.Steps = 100
	cfg.Wfreq = 100
	return cfg
}

// EquilibrationConfig builds the engine payload for the equilibration phase,
// restarting from the minimized checkpoint.
func (c *Case) EquilibrationConfig() *Config {
	cfg := c.base()
	cfg.Sysname = c.Sysname + "_eq"
	cfg.Steps = c.EquilSteps
	cfg.Wfreq = c.SaveEvery
	cfg.Restart = "checkpoint"
	cfg.Frestart = "restart.chk"
	return cfg
}

// ProductionConfig builds the engine payload for the production phase.
func (c *Case) ProductionConfig() *Config {
	cfg := c.base()
	cfg.Sysname = c.Sysname + "_prod"
	cfg.Steps = c.Steps
	cfg.Wfreq = c.SaveEvery
	cfg.Restart = "checkpoint"
	cfg.Frestart = "restart.chk"
	return cfg
}

// Components builds the chain composition payload, pointing at the residue
// table and sequence files under inputDir.
func (c *Case) Components(inputDir string) *Components {
	comps := NewComponents()
	for _, chain := range c.Chains {
		comps.Add(chain.Component, chain.Nmol,
			filepath.Join(inputDir, "polymer_residues.csv"),
			filepath.Join(inputDir, chain.Fasta))
	}
	return comps
}

// BeadCount returns the total number of beads across all chains.
func (c *Case) BeadCount() int {
	n := 0
	for _, chain := range c.Chains {
		n += chain.Nmol * chain.Length
	}
	return n
}
