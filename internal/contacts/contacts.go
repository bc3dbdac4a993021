// Package contacts counts cross-group particle contacts over a trajectory.
//
// A contact is a pair (a in group A, b in group B) whose separation is
// within the cutoff, under the minimum-image convention when the frame is
// periodic. The analyzer is a stateless batch transform: identical inputs
// always produce identical results.
package contacts

import (
	"fmt"
	"math"
	"sort"

	"github.com/vaishnavey/CALVADOS-poly/internal/traj"
)

// DefaultBins is the histogram bin count used when Params.Bins is zero.
const DefaultBins = 50

// Params selects the two particle groups and the contact criterion.
type Params struct {
	GroupA []int
	GroupB []int
	Cutoff float64 // nm
	Bins   int     // histogram bins; DefaultBins if zero
}

// Histogram is the distribution of per-frame contact counts.
type Histogram struct {
	Edges  []float64 // len(Counts)+1 bin edges
	Counts []int
}

// Result holds the per-frame series and its summary statistics.
type Result struct {
	Counts    []int     // contacts per frame, frame order
	Fractions []float64 // counts normalized by MaxPairs

	MaxPairs int // |A| x |B|

	Mean         float64
	Std          float64
	MeanFraction float64
	StdFraction  float64
	Min          int
	Max          int
	Median       float64

	Histogram Histogram

	Cutoff  float64
	NFrames int
	NGroupA int
	NGroupB int
}

// Analyze computes the cross-group contact series for the whole trajectory.
func Analyze(frames []traj.Frame, p Params) (*Result, error) {
	if p.Cutoff <= 0 || math.IsNaN(p.Cutoff) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidCutoff, p.Cutoff)
	}
	if len(frames) == 0 {
		return nil, ErrEmptyTrajectory
	}
	if err := checkGroups(frames[0], p.GroupA, p.GroupB); err != nil {
		return nil, err
	}

	res := &Result{
		Counts:    make([]int, len(frames)),
		Fractions: make([]float64, len(frames)),
		MaxPairs:  len(p.GroupA) * len(p.GroupB),
		Cutoff:    p.Cutoff,
		NFrames:   len(frames),
		NGroupA:   len(p.GroupA),
		NGroupB:   len(p.GroupB),
	}

	for fi := range frames {
		n := CountFrame(&frames[fi], p.GroupA, p.GroupB, p.Cutoff)
		res.Counts[fi] = n
		if res.MaxPairs > 0 {
			res.Fractions[fi] = float64(n) / float64(res.MaxPairs)
		}
	}

	res.summarize()
	bins := p.Bins
	if bins <= 0 {
		bins = DefaultBins
	}
	res.Histogram = histogram(res.Counts, bins)
	return res, nil
}

// CountFrame counts the cross-group pairs within cutoff for one frame.
// Euclidean distance is used, minimum-image when the frame is periodic.
func CountFrame(f *traj.Frame, groupA, groupB []int, cutoff float64) int {
	n := 0
	for _, a := range groupA {
		for _, b := range groupB {
			if f.Distance(a, b) <= cutoff {
				n++
			}
		}
	}
	return n
}

func checkGroups(f traj.Frame, groupA, groupB []int) error {
	natoms := len(f.Positions)
	seen := make(map[int]bool, len(groupA))
	for _, a := range groupA {
		if a < 0 || a >= natoms {
			return fmt.Errorf("%w: index %d, trajectory has %d particles", ErrIndexOutOfRange, a, natoms)
		}
		seen[a] = true
	}
	for _, b := range groupB {
		if b < 0 || b >= natoms {
			return fmt.Errorf("%w: index %d, trajectory has %d particles", ErrIndexOutOfRange, b, natoms)
		}
		if seen[b] {
			return fmt.Errorf("%w: particle %d in both groups", ErrOverlappingGroups, b)
		}
	}
	return nil
}

func (r *Result) summarize() {
	r.Min = r.Counts[0]
	r.Max = r.Counts[0]

	var sum, sumFrac float64
	for i, n := range r.Counts {
		sum += float64(n)
		sumFrac += r.Fractions[i]
		if n < r.Min {
			r.Min = n
		}
		if n > r.Max {
			r.Max = n
		}
	}
	nf := float64(len(r.Counts))
	r.Mean = sum / nf
	r.MeanFraction = sumFrac / nf

	var sq, sqFrac float64
	for i, n := range r.Counts {
		d := float64(n) - r.Mean
		sq += d * d
		df := r.Fractions[i] - r.MeanFraction
		sqFrac += df * df
	}
	r.Std = math.Sqrt(sq / nf)
	r.StdFraction = math.Sqrt(sqFrac / nf)

	sorted := make([]int, len(r.Counts))
	copy(sorted, r.Counts)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		r.Median = float64(sorted[mid])
	} else {
		r.Median = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	}
}

func histogram(counts []int, bins int) Histogram {
	lo, hi := counts[0], counts[0]
	for _, n := range counts {
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}

	span := float64(hi-lo) + 1
	if bins > hi-lo+1 {
		bins = hi - lo + 1
	}
	width := span / float64(bins)

	h := Histogram{
		Edges:  make([]float64, bins+1),
		Counts: make([]int, bins),
	}
	for i := 0; i <= bins; i++ {
		h.Edges[i] = float64(lo) + width*float64(i)
	}
	for _, n := range counts {
		bin := int(float64(n-lo) / width)
		if bin >= bins {
			bin = bins - 1
		}
		h.Counts[bin]++
	}
	return h
}
