// Package system composes the initial particle arrangement and the
// per-phase engine payloads for one simulation case.
package system

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/vaishnavey/CALVADOS-poly/internal/config"
	"github.com/vaishnavey/CALVADOS-poly/internal/residue"
	"github.com/vaishnavey/CALVADOS-poly/internal/traj"
)

// Bead is one coarse-grained particle of the composed system.
type Bead struct {
	Code    string
	Resname string
	Chain   int
	Charge  float64
}

// System is the composed topology: beads, bonds, initial positions, box.
type System struct {
	Beads     []Bead
	Positions []traj.Vec3
	Bonds     [][2]int
	Box       [3]float64
}

// Composer places the chains of a case into its periodic box.
type Composer struct {
	Case  *config.Case
	Table residue.Table
	Seqs  map[string]residue.Sequence // keyed by component name
	Seed  int64
}

// Compose builds the initial arrangement: every chain is grown as a random
// walk with per-residue bond lengths, wrapped into the box. The walk is
// deterministic for a given seed.
func (c *Composer) Compose() (*System, error) {
	box := [3]float64{c.Case.BoxL, c.Case.BoxL, c.Case.BoxL}
	sys := &System{Box: box}
	rng := rand.New(rand.NewSource(c.Seed))

	chainIdx := 0
	for _, chain := range c.Case.Chains {
		seq, ok := c.Seqs[chain.Component]
		if !ok {
			return nil, fmt.Errorf("%w: no sequence for component %s", config.ErrInvalidConfig, chain.Component)
		}
		if err := c.Table.Validate(seq); err != nil {
			return nil, err
		}

		for n := 0; n < chain.Nmol; n++ {
			if err := c.growChain(sys, rng, chain, seq, chainIdx); err != nil {
				return nil, err
			}
			chainIdx++
		}
	}
	return sys, nil
}

func (c *Composer) growChain(sys *System, rng *rand.Rand, chain config.Chain, seq residue.Sequence, chainIdx int) error {
	pos := traj.Vec3{
		X: rng.Float64() * sys.Box[0],
		Y: rng.Float64() * sys.Box[1],
		Z: rng.Float64() * sys.Box[2],
	}

	for i := 0; i < len(seq.Codes); i++ {
		code := string(seq.Codes[i])
		params := c.Table[code]

		if i > 0 {
			dir := randomUnit(rng)
			pos = traj.Vec3{
				X: pos.X + dir.X*params.BondLength,
				Y: pos.Y + dir.Y*params.BondLength,
				Z: pos.Z + dir.Z*params.BondLength,
			}
		}

		idx := len(sys.Beads)
		sys.Beads = append(sys.Beads, Bead{
			Code:    code,
			Resname: chain.Resname,
			Chain:   chainIdx,
			Charge:  params.Charge,
		})
		sys.Positions = append(sys.Positions, traj.Wrap(pos, sys.Box))
		if i > 0 {
			sys.Bonds = append(sys.Bonds, [2]int{idx - 1, idx})
		}
	}
	return nil
}

func randomUnit(rng *rand.Rand) traj.Vec3 {
	// Marsaglia rejection sampling on the unit sphere.
	for {
		x := 2*rng.Float64() - 1
		y := 2*rng.Float64() - 1
		z := 2*rng.Float64() - 1
		r2 := x*x + y*y + z*z
		if r2 > 1e-6 && r2 <= 1 {
			r := math.Sqrt(r2)
			return traj.Vec3{X: x / r, Y: y / r, Z: z / r}
		}
	}
}

// NetCharge sums the bead charges of the composed system.
func (s *System) NetCharge() float64 {
	var q float64
	for _, b := range s.Beads {
		q += b.Charge
	}
	return q
}

// LoadInputs reads the residue table and the per-component sequences a
// case needs from its input directory.
func LoadInputs(inputDir string, cs *config.Case) (residue.Table, map[string]residue.Sequence, error) {
	table, err := residue.LoadTable(filepath.Join(inputDir, "polymer_residues.csv"))
	if err != nil {
		return nil, nil, err
	}

	seqs := make(map[string]residue.Sequence, len(cs.Chains))
	for _, chain := range cs.Chains {
		seq, err := residue.FirstSequence(filepath.Join(inputDir, chain.Fasta))
		if err != nil {
			return nil, nil, err
		}
		seqs[chain.Component] = seq
	}
	return table, seqs, nil
}

// WriteCaseLayout creates the minimization/equilibration/production
// directory tree for a case, writing the phase configs, the component
// payloads, and the initial structure.
func WriteCaseLayout(caseDir, inputDir string, cs *config.Case, sys *System) error {
	phases := []struct {
		dir string
		cfg *config.Config
	}{
		{"minimization", cs.MinimizationConfig()},
		{"equilibration", cs.EquilibrationConfig()},
		{"production", cs.ProductionConfig()},
	}

	comps := cs.Components(inputDir)
	if err := comps.Validate(); err != nil {
		return err
	}

	for _, p := range phases {
		if err := p.cfg.Validate(); err != nil {
			return fmt.Errorf("case %s %s: %w", cs.ID, p.dir, err)
		}
		dir := filepath.Join(caseDir, p.dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		if err := config.Save(filepath.Join(dir, "config.yaml"), p.cfg); err != nil {
			return err
		}
		if err := config.SaveComponents(filepath.Join(dir, "components.yaml"), comps); err != nil {
			return err
		}
	}

	return WritePDB(filepath.Join(caseDir, "minimization", "initial.pdb"), sys)
}
