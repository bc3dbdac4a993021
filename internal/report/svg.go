package report

import (
	"fmt"
	"strings"

	"github.com/vaishnavey/CALVADOS-poly/internal/contacts"
)

// Plot margins in SVG user units.
const (
	marginLeft   = 55.0
	marginRight  = 15.0
	marginTop    = 30.0
	marginBottom = 40.0
)

// TimeSeriesSVG renders the per-frame contact counts as a polyline with a
// dashed mean line.
func TimeSeriesSVG(res *contacts.Result, width, height int) string {
	var sb strings.Builder
	svgHeader(&sb, width, height, "PAA-GTA contacts over time")

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom

	maxY := float64(res.Max)
	if maxY == 0 {
		maxY = 1
	}
	n := len(res.Counts)

	x := func(i int) float64 {
		if n <= 1 {
			return marginLeft
		}
		return marginLeft + plotW*float64(i)/float64(n-1)
	}
	y := func(v float64) float64 {
		return marginTop + plotH*(1-v/maxY)
	}

	axes(&sb, width, height, maxY, "frame", "contacts")

	sb.WriteString(`<path fill="none" stroke="#1f77b4" stroke-width="1.2" d="M`)
	for i, c := range res.Counts {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x(i), y(float64(c)))
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x(i), y(float64(c)))
		}
	}
	sb.WriteString("\"/>\n")

	meanY := y(res.Mean)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d62728" stroke-width="1.2" stroke-dasharray="6,4"/>`+"\n",
		marginLeft, meanY, marginLeft+plotW, meanY)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="12" fill="#d62728">mean = %.1f ± %.1f</text>`+"\n",
		marginLeft+8, meanY-6, res.Mean, res.Std)

	sb.WriteString("</svg>\n")
	return sb.String()
}

// HistogramSVG renders the count distribution as vertical bars with a
// dashed mean marker.
func HistogramSVG(res *contacts.Result, width, height int) string {
	var sb strings.Builder
	svgHeader(&sb, width, height, "Distribution of PAA-GTA contacts")

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom

	h := res.Histogram
	maxCount := 0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	lo := h.Edges[0]
	hi := h.Edges[len(h.Edges)-1]
	span := hi - lo
	if span == 0 {
		span = 1
	}

	axes(&sb, width, height, float64(maxCount), "contacts", "frames")

	barW := plotW / float64(len(h.Counts))
	for i, c := range h.Counts {
		if c == 0 {
			continue
		}
		barH := plotH * float64(c) / float64(maxCount)
		bx := marginLeft + plotW*(h.Edges[i]-lo)/span
		by := marginTop + plotH - barH
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#1f77b4" fill-opacity="0.7" stroke="#333" stroke-width="0.5"/>`+"\n",
			bx, by, barW, barH)
	}

	meanX := marginLeft + plotW*(res.Mean-lo)/span
	if meanX >= marginLeft && meanX <= marginLeft+plotW {
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d62728" stroke-width="1.2" stroke-dasharray="6,4"/>`+"\n",
			meanX, marginTop, meanX, marginTop+plotH)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func svgHeader(sb *strings.Builder, width, height int, title string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="%d" y="20" font-size="14" font-weight="bold" fill="#222">%s</text>
`, width, height, width, height, width/2-len(title)*3, title)
}

func axes(sb *strings.Builder, width, height int, maxY float64, xLabel, yLabel string) {
	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom

	fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-width="1"/>`+"\n",
		marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH)
	fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-width="1"/>`+"\n",
		marginLeft, marginTop, marginLeft, marginTop+plotH)

	fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-size="12" fill="#333">%s</text>`+"\n",
		marginLeft+plotW/2, float64(height)-10, xLabel)
	fmt.Fprintf(sb, `<text x="12" y="%.1f" font-size="12" fill="#333" transform="rotate(-90 12 %.1f)">%s</text>`+"\n",
		marginTop+plotH/2, marginTop+plotH/2, yLabel)

	fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-size="11" fill="#555" text-anchor="end">%.0f</text>`+"\n",
		marginLeft-6, marginTop+8, maxY)
	fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-size="11" fill="#555" text-anchor="end">0</text>`+"\n",
		marginLeft-6, marginTop+plotH)
}
