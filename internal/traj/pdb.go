package traj

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Topology is the static particle description read from a PDB structure
// file: per-particle residue names plus reference coordinates.
type Topology struct {
	Resnames  []string
	ChainIDs  []string
	Positions []Vec3 // nm
	Box       [3]float64
}

// NAtoms returns the particle count.
func (t *Topology) NAtoms() int {
	return len(t.Resnames)
}

// SelectResname returns the indices of all particles with the given
// residue name.
func (t *Topology) SelectResname(name string) []int {
	var idx []int
	for i, rn := range t.Resnames {
		if rn == name {
			idx = append(idx, i)
		}
	}
	return idx
}

// Partition splits the particles into the two analysis groups by residue
// name. When either name matches nothing the split falls back to first
// half / second half, mirroring how the trajectory is laid out when chain
// types are placed in sequence.
func (t *Topology) Partition(nameA, nameB string) (groupA, groupB []int) {
	groupA = t.SelectResname(nameA)
	groupB = t.SelectResname(nameB)
	if len(groupA) > 0 && len(groupB) > 0 {
		return groupA, groupB
	}

	n := t.NAtoms()
	groupA = make([]int, 0, n/2)
	groupB = make([]int, 0, n-n/2)
	for i := 0; i < n/2; i++ {
		groupA = append(groupA, i)
	}
	for i := n / 2; i < n; i++ {
		groupB = append(groupB, i)
	}
	return groupA, groupB
}

// ReadPDB parses ATOM/HETATM and CRYST1 records from a PDB file.
// Coordinates are converted from Angstrom to nm.
func ReadPDB(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	top := &Topology{}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		switch {
		case strings.HasPrefix(text, "CRYST1"):
			if len(text) < 33 {
				continue
			}
			a, errA := parsePDBFloat(text[6:15])
			b, errB := parsePDBFloat(text[15:24])
			c, errC := parsePDBFloat(text[24:33])
			if errA == nil && errB == nil && errC == nil {
				top.Box = [3]float64{a / angstromPerNm, b / angstromPerNm, c / angstromPerNm}
			}
		case strings.HasPrefix(text, "ATOM") || strings.HasPrefix(text, "HETATM"):
			if len(text) < 54 {
				return nil, fmt.Errorf("traj: %s line %d: ATOM record too short", path, line)
			}
			x, errX := parsePDBFloat(text[30:38])
			y, errY := parsePDBFloat(text[38:46])
			z, errZ := parsePDBFloat(text[46:54])
			if errX != nil || errY != nil || errZ != nil {
				return nil, fmt.Errorf("traj: %s line %d: bad coordinates", path, line)
			}
			top.Resnames = append(top.Resnames, strings.TrimSpace(text[17:20]))
			chain := ""
			if len(text) > 21 {
				chain = strings.TrimSpace(text[21:22])
			}
			top.ChainIDs = append(top.ChainIDs, chain)
			top.Positions = append(top.Positions, Vec3{
				X: x / angstromPerNm,
				Y: y / angstromPerNm,
				Z: z / angstromPerNm,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if top.NAtoms() == 0 {
		return nil, fmt.Errorf("traj: %s: no ATOM records", path)
	}
	return top, nil
}

func parsePDBFloat(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}
