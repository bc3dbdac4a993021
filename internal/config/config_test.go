package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sysname = "test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero box", func(c *Config) { c.Box[1] = 0 }},
		{"negative temp", func(c *Config) { c.Temp = -1 }},
		{"negative ionic", func(c *Config) { c.Ionic = -0.1 }},
		{"zero timestep", func(c *Config) { c.TimestepFs = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"wfreq above steps", func(c *Config) { c.Steps = 10; c.Wfreq = 100 }},
		{"minimize without steps", func(c *Config) { c.Minimize = true; c.MinimizeSteps = 0 }},
		{"bad platform", func(c *Config) { c.Platform = "TPU" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Cases["b"].ProductionConfig()
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Sysname != "case_b_mixed_prod" {
		t.Errorf("unexpected sysname %s", loaded.Sysname)
	}
	if loaded.Steps != DefaultSteps {
		t.Errorf("expected %d steps, got %d", DefaultSteps, loaded.Steps)
	}
	if loaded.Restart != "checkpoint" || loaded.Frestart != "restart.chk" {
		t.Errorf("restart fields lost: %q %q", loaded.Restart, loaded.Frestart)
	}
}

func TestPhaseConfigs(t *testing.T) {
	c := Cases["a"]

	min := c.MinimizationConfig()
	if !min.Minimize || min.MinimizeSteps != DefaultMinimizeSteps {
		t.Error("minimization config should enable minimize")
	}
	if min.Restart != "" {
		t.Error("minimization starts fresh, not from a checkpoint")
	}

	eq := c.EquilibrationConfig()
	if eq.Steps != DefaultEquilSteps {
		t.Errorf("expected %d equilibration steps, got %d", DefaultEquilSteps, eq.Steps)
	}
	if eq.Restart != "checkpoint" {
		t.Error("equilibration must restart from checkpoint")
	}

	prod := c.ProductionConfig()
	if prod.Steps != DefaultSteps {
		t.Errorf("expected %d production steps, got %d", DefaultSteps, prod.Steps)
	}
	if got := prod.SimulationTimeNs(); got != 100.0 {
		t.Errorf("expected 100 ns production, got %g", got)
	}
	if got := prod.FrameCount(); got != 10000 {
		t.Errorf("expected 10000 frames, got %d", got)
	}

	for _, cfg := range []*Config{min, eq, prod} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: %v", cfg.Sysname, err)
		}
	}
}

func TestCaseComposition(t *testing.T) {
	a, err := GetCase("a")
	if err != nil {
		t.Fatal(err)
	}
	if a.BeadCount() != 500 {
		t.Errorf("case a: expected 500 beads, got %d", a.BeadCount())
	}

	b, err := GetCase("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Chains) != 2 {
		t.Fatalf("case b: expected 2 chain types, got %d", len(b.Chains))
	}
	if b.BeadCount() != 500 {
		t.Errorf("case b: expected 500 beads, got %d", b.BeadCount())
	}

	if _, err := GetCase("c"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for unknown case, got %v", err)
	}
}

func TestComponentsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components.yaml")

	comps := Cases["b"].Components("input")
	if err := comps.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := SaveComponents(path, comps); err != nil {
		t.Fatalf("SaveComponents: %v", err)
	}

	loaded, err := LoadComponents(path)
	if err != nil {
		t.Fatalf("LoadComponents: %v", err)
	}

	paa, ok := loaded.System["polyallylamine_chain"]
	if !ok {
		t.Fatal("missing polyallylamine_chain component")
	}
	if paa.Nmol != 5 {
		t.Errorf("expected 5 PAA chains, got %d", paa.Nmol)
	}
	if loaded.Defaults.MoleculeType != "protein" {
		t.Errorf("unexpected molecule type %s", loaded.Defaults.MoleculeType)
	}
	if !loaded.Defaults.Periodic {
		t.Error("expected periodic system")
	}
}

func TestComponentsValidate(t *testing.T) {
	comps := NewComponents()
	if err := comps.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for empty system, got %v", err)
	}

	comps.Add("chain", 0, "res.csv", "chain.fasta")
	if err := comps.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero nmol, got %v", err)
	}
}
