package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vaishnavey/CALVADOS-poly/internal/contacts"
	"github.com/vaishnavey/CALVADOS-poly/internal/traj"
)

func sampleResult(t *testing.T) *contacts.Result {
	t.Helper()
	frames := []traj.Frame{
		{Positions: []traj.Vec3{{X: 0}, {X: 0.1}, {X: 5}, {X: 6}}},
		{Positions: []traj.Vec3{{X: 0}, {X: 0.1}, {X: 0.2}, {X: 6}}},
		{Positions: []traj.Vec3{{X: 0}, {X: 0.1}, {X: 0.2}, {X: 0.3}}},
	}
	res, err := contacts.Analyze(frames, contacts.Params{
		GroupA: []int{0, 1},
		GroupB: []int{2, 3},
		Cutoff: 0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestSummaryContents(t *testing.T) {
	s := Summary(sampleResult(t))

	for _, want := range []string{
		"CROSSLINKING ANALYSIS SUMMARY",
		"Cutoff distance: 0.5 nm",
		"Number of frames analyzed: 3",
		"Mean number of contacts:",
		"Contact fraction:",
		"Median contacts:",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}

func TestTimeSeriesSVG(t *testing.T) {
	svg := TimeSeriesSVG(sampleResult(t), 900, 420)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("missing time-series polyline")
	}
	if !strings.Contains(svg, "mean =") {
		t.Error("missing mean annotation")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("unterminated SVG document")
	}
}

func TestHistogramSVG(t *testing.T) {
	svg := HistogramSVG(sampleResult(t), 640, 420)

	if !strings.Contains(svg, "<rect x=") {
		t.Error("missing histogram bars")
	}
	if !strings.HasSuffix(strings.TrimSpace(svg), "</svg>") {
		t.Error("unterminated SVG document")
	}
}

func TestTerminalPlot(t *testing.T) {
	plot := TerminalPlot(sampleResult(t))
	if !strings.Contains(plot, "contacts per frame") {
		t.Error("missing caption")
	}
}

func TestWriteAll(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "crosslinking_analysis")

	written, err := WriteAll(prefix, sampleResult(t))
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 artifacts, got %d", len(written))
	}

	for _, path := range []string{
		prefix + "_contacts.svg",
		prefix + "_contact_histogram.svg",
		prefix + "_summary.txt",
	} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing artifact %s: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("empty artifact %s", path)
		}
	}
}
