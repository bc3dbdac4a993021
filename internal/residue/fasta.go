package residue

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Sequence is one named chain of residue codes.
type Sequence struct {
	Name  string
	Codes string
}

// LoadFASTA reads every sequence from a FASTA file. Wrapped sequence lines
// are joined and codes are uppercased.
func LoadFASTA(path string) ([]Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var seqs []Sequence
	var cur *Sequence
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			seqs = append(seqs, Sequence{Name: strings.TrimSpace(line[1:])})
			cur = &seqs[len(seqs)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("residue: %s: sequence data before header", path)
		}
		cur.Codes += strings.ToUpper(line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(seqs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySequence, path)
	}
	return seqs, nil
}

// FirstSequence reads the first sequence of a FASTA file.
func FirstSequence(path string) (Sequence, error) {
	seqs, err := LoadFASTA(path)
	if err != nil {
		return Sequence{}, err
	}
	if seqs[0].Codes == "" {
		return Sequence{}, fmt.Errorf("%w: %s", ErrEmptySequence, seqs[0].Name)
	}
	return seqs[0], nil
}
