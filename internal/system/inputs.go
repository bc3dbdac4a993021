package system

import (
	"os"
	"path/filepath"
	"strings"
)

// Default bead parameters for the two polymers. Polyallylamine monomers
// carry the protonated amine charge at pH 7; glutaraldehyde is neutral.
const defaultResidueTable = `code,name,mw,lambda,sigma,charge,bond_length
A,allylamine,57.10,0.25,0.50,1.0,0.38
G,glutaraldehyde,100.12,0.60,0.55,0.0,0.40
`

const defaultChainLength = 50

// EnsureInputs writes the default residue table and sequence files into
// inputDir unless they already exist. Existing files are never touched, so
// a user-edited parameter set survives repeated setup runs.
func EnsureInputs(inputDir string) error {
	if err := os.MkdirAll(inputDir, 0755); err != nil {
		return err
	}

	files := map[string]string{
		"polymer_residues.csv": defaultResidueTable,
		"polyallylamine.fasta": fastaRecord("polyallylamine_chain", "A"),
		"glutaraldehyde.fasta": fastaRecord("glutaraldehyde_chain", "G"),
	}

	for name, contents := range files {
		path := filepath.Join(inputDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return err
		}
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			return err
		}
	}
	return nil
}

func fastaRecord(name, code string) string {
	var sb strings.Builder
	sb.WriteString(">" + name + "\n")
	seq := strings.Repeat(code, defaultChainLength)
	// wrap at 60 columns, conventional FASTA width
	for len(seq) > 60 {
		sb.WriteString(seq[:60] + "\n")
		seq = seq[60:]
	}
	sb.WriteString(seq + "\n")
	return sb.String()
}
