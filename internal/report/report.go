// Package report renders contact analysis results: a text summary, SVG
// plots, and a terminal time series.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/vaishnavey/CALVADOS-poly/internal/contacts"
)

const rule = "============================================================"

// Summary formats the analysis statistics as the crosslinking report text.
func Summary(res *contacts.Result) string {
	var sb strings.Builder

	sb.WriteString(rule + "\n")
	sb.WriteString("CROSSLINKING ANALYSIS SUMMARY\n")
	sb.WriteString(rule + "\n\n")

	fmt.Fprintf(&sb, "Cutoff distance: %g nm\n", res.Cutoff)
	fmt.Fprintf(&sb, "Number of frames analyzed: %d\n", res.NFrames)
	fmt.Fprintf(&sb, "Number of PAA atoms: %d\n", res.NGroupA)
	fmt.Fprintf(&sb, "Number of GTA atoms: %d\n\n", res.NGroupB)

	sb.WriteString("CONTACT STATISTICS:\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&sb, "Mean number of contacts: %.2f ± %.2f\n", res.Mean, res.Std)
	fmt.Fprintf(&sb, "Contact fraction: %.6f ± %.6f\n", res.MeanFraction, res.StdFraction)
	fmt.Fprintf(&sb, "Contact percentage: %.4f%%\n\n", res.MeanFraction*100)

	fmt.Fprintf(&sb, "Minimum contacts: %d\n", res.Min)
	fmt.Fprintf(&sb, "Maximum contacts: %d\n", res.Max)
	fmt.Fprintf(&sb, "Median contacts: %.2f\n\n", res.Median)

	sb.WriteString(rule + "\n")
	return sb.String()
}

// WriteSummary writes the text report to path.
func WriteSummary(path string, res *contacts.Result) error {
	return os.WriteFile(path, []byte(Summary(res)), 0644)
}

// TerminalPlot renders the per-frame contact series as an ASCII graph.
func TerminalPlot(res *contacts.Result) string {
	data := make([]float64, len(res.Counts))
	for i, n := range res.Counts {
		data[i] = float64(n)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("contacts per frame (mean %.1f)", res.Mean)),
	)
}

// WriteAll writes the full artifact set for one analysis run using the
// given output prefix, mirroring the prefix_contacts / prefix_summary
// naming of the analysis outputs.
func WriteAll(prefix string, res *contacts.Result) ([]string, error) {
	outputs := []struct {
		path string
		body string
	}{
		{prefix + "_contacts.svg", TimeSeriesSVG(res, 900, 420)},
		{prefix + "_contact_histogram.svg", HistogramSVG(res, 640, 420)},
		{prefix + "_summary.txt", Summary(res)},
	}

	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		if err := os.WriteFile(out.path, []byte(out.body), 0644); err != nil {
			return written, err
		}
		written = append(written, out.path)
	}
	return written, nil
}
