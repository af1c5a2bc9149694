// Package export renders saved traces to SVG, HTML, PDF and XLSX files.
package export

import (
	"fmt"
	"strings"
)

// Series is one displacement curve on a plot. Saved traces are drawn dashed,
// the current curve solid, matching the explorer's on-screen style.
type Series struct {
	Label  string
	Times  []float64
	Xs     []float64
	Dashed bool
}

// palette cycles per series on a dark background.
var palette = []string{
	"#00e0e0", "#ff88ff", "#a0ff60", "#ffc040", "#60a0ff", "#ff6060",
}

const (
	marginLeft   = 70.0
	marginRight  = 180.0 // legend gutter
	marginTop    = 50.0
	marginBottom = 50.0
)

type plotBounds struct {
	tMin, tMax, xMin, xMax float64
}

func boundsOf(series []Series) (plotBounds, bool) {
	b := plotBounds{}
	found := false
	for _, s := range series {
		for i := range s.Times {
			if !found {
				b.tMin, b.tMax = s.Times[i], s.Times[i]
				b.xMin, b.xMax = s.Xs[i], s.Xs[i]
				found = true
				continue
			}
			if s.Times[i] < b.tMin {
				b.tMin = s.Times[i]
			}
			if s.Times[i] > b.tMax {
				b.tMax = s.Times[i]
			}
			if s.Xs[i] < b.xMin {
				b.xMin = s.Xs[i]
			}
			if s.Xs[i] > b.xMax {
				b.xMax = s.Xs[i]
			}
		}
	}
	if !found {
		return b, false
	}
	if b.tMax == b.tMin {
		b.tMax = b.tMin + 1
	}
	if b.xMax == b.xMin {
		b.xMax, b.xMin = b.xMin+0.5, b.xMin-0.5
	} else {
		pad := (b.xMax - b.xMin) * 0.08
		b.xMin -= pad
		b.xMax += pad
	}
	return b, true
}

// PlotSVG renders the series as a multi-trace line plot with axes, ticks and
// a legend.
func PlotSVG(series []Series, title string, width, height int) string {
	b, ok := boundsOf(series)
	if !ok {
		return ""
	}

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom
	toX := func(t float64) float64 {
		return marginLeft + (t-b.tMin)/(b.tMax-b.tMin)*plotW
	}
	toY := func(x float64) float64 {
		return marginTop + plotH - (x-b.xMin)/(b.xMax-b.xMin)*plotH
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if title != "" {
		fmt.Fprintf(&sb, `<text x="%.0f" y="28" fill="#e0e0e0" font-family="monospace" font-size="16">%s</text>
`, marginLeft, escapeXML(title))
	}

	// Frame and zero line.
	fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#404040"/>
`, marginLeft, marginTop, plotW, plotH)
	if b.xMin < 0 && b.xMax > 0 {
		y0 := toY(0)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#303030" stroke-dasharray="2,4"/>
`, marginLeft, y0, marginLeft+plotW, y0)
	}

	// Ticks: 5 on each axis.
	for i := 0; i <= 5; i++ {
		frac := float64(i) / 5
		t := b.tMin + frac*(b.tMax-b.tMin)
		x := toX(t)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#404040"/>
`, x, marginTop+plotH, x, marginTop+plotH+5)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#808080" font-family="monospace" font-size="11" text-anchor="middle">%.1f</text>
`, x, marginTop+plotH+18, t)

		v := b.xMin + frac*(b.xMax-b.xMin)
		y := toY(v)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#404040"/>
`, marginLeft-5, y, marginLeft, y)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#808080" font-family="monospace" font-size="11" text-anchor="end">%.2f</text>
`, marginLeft-8, y+4, v)
	}

	// Axis labels.
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#a0a0a0" font-family="monospace" font-size="12" text-anchor="middle">time (s)</text>
`, marginLeft+plotW/2, float64(height)-12)
	fmt.Fprintf(&sb, `<text x="16" y="%.1f" fill="#a0a0a0" font-family="monospace" font-size="12" transform="rotate(-90 16 %.1f)" text-anchor="middle">x(t)</text>
`, marginTop+plotH/2, marginTop+plotH/2)

	// Curves.
	for si, s := range series {
		color := palette[si%len(palette)]
		dash := ""
		if s.Dashed {
			dash = ` stroke-dasharray="6,4"`
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"%s d="M`, color, dash)
		for i := range s.Times {
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", toX(s.Times[i]), toY(s.Xs[i]))
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", toX(s.Times[i]), toY(s.Xs[i]))
			}
		}
		sb.WriteString("\"/>\n")
	}

	// Legend in the right gutter.
	lx := marginLeft + plotW + 14
	for si, s := range series {
		color := palette[si%len(palette)]
		ly := marginTop + 10 + float64(si)*18
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>
`, lx, ly, lx+20, ly, color)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="#c0c0c0" font-family="monospace" font-size="11">%s</text>
`, lx+26, ly+4, escapeXML(truncate(legendText(s.Label), 24)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// legendText strips the *changed* markers used by trace labels.
func legendText(label string) string {
	return strings.ReplaceAll(label, "*", "")
}

// truncate shortens s to n runes; labels contain multi-byte runes like Δ,
// so cutting on bytes could split one.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
