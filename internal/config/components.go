package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ComponentDefaults hold the molecule settings shared by every chain type
// in a system.
type ComponentDefaults struct {
	MoleculeType  string `yaml:"molecule_type"`
	Restraint     bool   `yaml:"restraint"`
	ChargeTermini string `yaml:"charge_termini"`
	Periodic      bool   `yaml:"periodic"`
}

// Component describes one chain type: how many copies and where its
// residue table and sequence live.
type Component struct {
	Nmol      int    `yaml:"nmol"`
	Fresidues string `yaml:"fresidues"`
	Ffasta    string `yaml:"ffasta"`
}

// Components is the chain composition payload written next to each phase
// config. The defaults/system split matches the engine's expected shape.
type Components struct {
	Defaults ComponentDefaults     `yaml:"defaults"`
	System   map[string]*Component `yaml:"system"`
}

func NewComponents() *Components {
	return &Components{
		Defaults: ComponentDefaults{
			MoleculeType:  "protein",
			ChargeTermini: "both",
			Periodic:      true,
		},
		System: make(map[string]*Component),
	}
}

// Add registers one chain type under the given component name.
func (c *Components) Add(name string, nmol int, fresidues, ffasta string) {
	c.System[name] = &Component{Nmol: nmol, Fresidues: fresidues, Ffasta: ffasta}
}

func (c *Components) Validate() error {
	if len(c.System) == 0 {
		return fmt.Errorf("%w: no components defined", ErrInvalidConfig)
	}
	for name, comp := range c.System {
		if comp.Nmol <= 0 {
			return fmt.Errorf("%w: component %s has nmol %d", ErrInvalidConfig, name, comp.Nmol)
		}
		if comp.Fresidues == "" || comp.Ffasta == "" {
			return fmt.Errorf("%w: component %s missing input files", ErrInvalidConfig, name)
		}
	}
	return nil
}

func LoadComponents(path string) (*Components, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	comps := NewComponents()
	if err := yaml.Unmarshal(data, comps); err != nil {
		return nil, err
	}
	return comps, nil
}

func SaveComponents(path string, comps *Components) error {
	data, err := yaml.Marshal(comps)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
