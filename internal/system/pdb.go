package system

import (
	"bufio"
	"fmt"
	"os"
)

const nmToAngstrom = 10.0

// WritePDB emits the composed system as a PDB structure file, one ATOM
// record per bead, coordinates in Angstrom.
func WritePDB(path string, sys *System) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n",
		sys.Box[0]*nmToAngstrom, sys.Box[1]*nmToAngstrom, sys.Box[2]*nmToAngstrom,
		90.0, 90.0, 90.0)

	resSeq := 0
	lastChain := -1
	for i, bead := range sys.Beads {
		if bead.Chain != lastChain {
			if lastChain >= 0 {
				fmt.Fprintln(w, "TER")
			}
			lastChain = bead.Chain
			resSeq = 0
		}
		resSeq++

		pos := sys.Positions[i]
		fmt.Fprintf(w, "ATOM  %5d %-4s %3s %s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f\n",
			(i+1)%100000,
			"CA",
			bead.Resname,
			chainLetter(bead.Chain),
			resSeq%10000,
			pos.X*nmToAngstrom, pos.Y*nmToAngstrom, pos.Z*nmToAngstrom,
			1.0, 0.0)
	}
	fmt.Fprintln(w, "TER")
	fmt.Fprintln(w, "END")
	return w.Flush()
}

func chainLetter(chain int) string {
	return string(rune('A' + chain%26))
}
