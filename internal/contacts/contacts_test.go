package contacts

import (
	"errors"
	"testing"

	"github.com/vaishnavey/CALVADOS-poly/internal/traj"
)

func frameAt(positions ...traj.Vec3) traj.Frame {
	return traj.Frame{Positions: positions}
}

func TestAnalyze_EmptyTrajectory(t *testing.T) {
	_, err := Analyze(nil, Params{GroupA: []int{0}, GroupB: []int{1}, Cutoff: 0.6})
	if !errors.Is(err, ErrEmptyTrajectory) {
		t.Errorf("expected ErrEmptyTrajectory, got %v", err)
	}
}

func TestAnalyze_InvalidCutoff(t *testing.T) {
	frames := []traj.Frame{frameAt(traj.Vec3{}, traj.Vec3{X: 1})}

	for _, cutoff := range []float64{0, -0.6} {
		_, err := Analyze(frames, Params{GroupA: []int{0}, GroupB: []int{1}, Cutoff: cutoff})
		if !errors.Is(err, ErrInvalidCutoff) {
			t.Errorf("cutoff %g: expected ErrInvalidCutoff, got %v", cutoff, err)
		}
	}
}

func TestAnalyze_OverlappingGroups(t *testing.T) {
	frames := []traj.Frame{frameAt(traj.Vec3{}, traj.Vec3{X: 1}, traj.Vec3{X: 2})}

	_, err := Analyze(frames, Params{GroupA: []int{0, 1}, GroupB: []int{1, 2}, Cutoff: 0.6})
	if !errors.Is(err, ErrOverlappingGroups) {
		t.Errorf("expected ErrOverlappingGroups, got %v", err)
	}
}

func TestAnalyze_IndexOutOfRange(t *testing.T) {
	frames := []traj.Frame{frameAt(traj.Vec3{}, traj.Vec3{X: 1})}

	_, err := Analyze(frames, Params{GroupA: []int{0}, GroupB: []int{7}, Cutoff: 0.6})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAnalyze_EmptyGroup(t *testing.T) {
	frames := []traj.Frame{
		frameAt(traj.Vec3{}, traj.Vec3{X: 0.1}),
		frameAt(traj.Vec3{}, traj.Vec3{X: 0.1}),
	}

	res, err := Analyze(frames, Params{GroupA: nil, GroupB: []int{0, 1}, Cutoff: 0.6})
	if err != nil {
		t.Fatalf("empty group should not error: %v", err)
	}
	for fi, n := range res.Counts {
		if n != 0 {
			t.Errorf("frame %d: expected 0 contacts for empty group, got %d", fi, n)
		}
	}
	if res.MaxPairs != 0 {
		t.Errorf("expected MaxPairs 0, got %d", res.MaxPairs)
	}
	if res.MeanFraction != 0 {
		t.Errorf("expected zero fraction, got %g", res.MeanFraction)
	}
}

func TestAnalyze_PeriodicContact(t *testing.T) {
	// Separated by 4.8 nm in open space, 0.2 nm across the periodic boundary.
	frame := traj.Frame{
		Positions: []traj.Vec3{{X: 0.1}, {X: 4.9}},
		Box:       [3]float64{5, 5, 5},
	}

	res, err := Analyze([]traj.Frame{frame}, Params{GroupA: []int{0}, GroupB: []int{1}, Cutoff: 0.6})
	if err != nil {
		t.Fatal(err)
	}
	if res.Counts[0] != 1 {
		t.Errorf("expected minimum-image contact, got %d", res.Counts[0])
	}

	open := traj.Frame{Positions: frame.Positions}
	res, err = Analyze([]traj.Frame{open}, Params{GroupA: []int{0}, GroupB: []int{1}, Cutoff: 0.6})
	if err != nil {
		t.Fatal(err)
	}
	if res.Counts[0] != 0 {
		t.Errorf("expected no contact without periodicity, got %d", res.Counts[0])
	}
}

func TestSummaryStatistics(t *testing.T) {
	// Counts per frame will be 0, 1, 2, 1.
	mk := func(xs ...float64) traj.Frame {
		ps := []traj.Vec3{{}, {X: 10}}
		for _, x := range xs {
			ps = append(ps, traj.Vec3{X: x})
		}
		return traj.Frame{Positions: ps}
	}
	frames := []traj.Frame{
		mk(5.0, 6.0),  // 0 contacts
		mk(0.1, 6.0),  // 1 contact
		mk(0.1, 0.2),  // 2 contacts
		mk(6.0, 0.3),  // 1 contact
	}

	res, err := Analyze(frames, Params{GroupA: []int{0}, GroupB: []int{2, 3}, Cutoff: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 1, 2, 1}
	for i := range want {
		if res.Counts[i] != want[i] {
			t.Errorf("frame %d: expected %d contacts, got %d", i, want[i], res.Counts[i])
		}
	}
	if res.Mean != 1.0 {
		t.Errorf("expected mean 1.0, got %g", res.Mean)
	}
	if res.Min != 0 || res.Max != 2 {
		t.Errorf("expected min 0 max 2, got %d %d", res.Min, res.Max)
	}
	if res.Median != 1.0 {
		t.Errorf("expected median 1.0, got %g", res.Median)
	}
	// population std of {0,1,2,1} around 1 is sqrt(2/4)
	if diff := res.Std - 0.7071067811865476; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected std sqrt(0.5), got %g", res.Std)
	}
}

func TestHistogram(t *testing.T) {
	counts := []int{0, 0, 1, 2, 3, 3, 3}
	h := histogram(counts, 4)

	if len(h.Counts) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(h.Counts))
	}
	if len(h.Edges) != 5 {
		t.Fatalf("expected 5 edges, got %d", len(h.Edges))
	}

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	if total != len(counts) {
		t.Errorf("histogram should cover all %d frames, got %d", len(counts), total)
	}
	if h.Counts[0] != 2 || h.Counts[3] != 3 {
		t.Errorf("unexpected bin contents %v", h.Counts)
	}
}

func TestHistogram_SingleValue(t *testing.T) {
	h := histogram([]int{5, 5, 5}, 50)
	if len(h.Counts) != 1 {
		t.Fatalf("expected bins clamped to value range, got %d", len(h.Counts))
	}
	if h.Counts[0] != 3 {
		t.Errorf("expected all frames in one bin, got %v", h.Counts)
	}
}
