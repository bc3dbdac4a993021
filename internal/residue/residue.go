// Package residue loads the coarse-grained bead parameter table and the
// chain sequences that define a polymer system.
package residue

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
)

var (
	ErrEmptyTable    = errors.New("residue: empty parameter table")
	ErrUnknownCode   = errors.New("residue: unknown residue code")
	ErrEmptySequence = errors.New("residue: empty sequence")
)

// Params holds the force-field parameters of one bead type. Lambda is the
// hydrophobicity scale value, Sigma the bead diameter in nm, BondLength the
// backbone bond length in nm.
type Params struct {
	Name       string
	MW         float64
	Lambda     float64
	Sigma      float64
	Charge     float64
	BondLength float64
}

// Table maps one-letter residue codes to their parameters.
type Table map[string]Params

// LoadTable reads a parameter table from CSV with the columns
// code,name,mw,lambda,sigma,charge,bond_length. The header row is required.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("residue: parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	table := make(Table, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 7 {
			return nil, fmt.Errorf("residue: %s row %d: want 7 columns, got %d", path, i+2, len(rec))
		}
		var vals [5]float64
		for j, field := range rec[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("residue: %s row %d: %w", path, i+2, err)
			}
			vals[j] = v
		}
		table[rec[0]] = Params{
			Name:       rec[1],
			MW:         vals[0],
			Lambda:     vals[1],
			Sigma:      vals[2],
			Charge:     vals[3],
			BondLength: vals[4],
		}
	}
	return table, nil
}

// Validate checks that every code in seq is present in the table.
func (t Table) Validate(seq Sequence) error {
	if len(t) == 0 {
		return ErrEmptyTable
	}
	if len(seq.Codes) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptySequence, seq.Name)
	}
	for i := 0; i < len(seq.Codes); i++ {
		code := string(seq.Codes[i])
		if _, ok := t[code]; !ok {
			return fmt.Errorf("%w: %q at position %d of %s", ErrUnknownCode, code, i, seq.Name)
		}
	}
	return nil
}

// TotalMass sums the molecular weights of a sequence in g/mol.
func (t Table) TotalMass(seq Sequence) (float64, error) {
	if err := t.Validate(seq); err != nil {
		return 0, err
	}
	var m float64
	for i := 0; i < len(seq.Codes); i++ {
		m += t[string(seq.Codes[i])].MW
	}
	return m, nil
}

// NetCharge sums the bead charges of a sequence in elementary units.
func (t Table) NetCharge(seq Sequence) (float64, error) {
	if err := t.Validate(seq); err != nil {
		return 0, err
	}
	var q float64
	for i := 0; i < len(seq.Codes); i++ {
		q += t[string(seq.Codes[i])].Charge
	}
	return q, nil
}
