package export

import (
	"fmt"
	"os"
	"strings"
)

// PlotHTML wraps the SVG plot in a standalone page for download.
func PlotHTML(series []Series, title string, width, height int) string {
	svg := PlotSVG(series, title, width, height)
	if svg == "" {
		return ""
	}

	heading := title
	if heading == "" {
		heading = "Damped Harmonic Oscillator"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&sb, "<meta charset=\"utf-8\">\n<title>%s</title>\n", escapeXML(heading))
	sb.WriteString(`<style>
body { background: #111; color: #ddd; font-family: monospace; margin: 2em; }
figure { margin: 0; }
figcaption { margin-top: 0.8em; color: #888; }
</style>
</head>
<body>
`)
	fmt.Fprintf(&sb, "<h1>%s</h1>\n<figure>\n", escapeXML(heading))
	sb.WriteString(svg)
	fmt.Fprintf(&sb, "\n<figcaption>%d trace(s), displacement x(t) vs time</figcaption>\n", len(series))
	sb.WriteString("</figure>\n</body>\n</html>\n")
	return sb.String()
}

// WriteHTML renders the plot page to a file.
func WriteHTML(path string, series []Series, title string, width, height int) error {
	html := PlotHTML(series, title, width, height)
	if html == "" {
		return fmt.Errorf("export: nothing to plot")
	}
	return os.WriteFile(path, []byte(html), 0644)
}

// WriteSVG renders the plot to a file.
func WriteSVG(path string, series []Series, title string, width, height int) error {
	svg := PlotSVG(series, title, width, height)
	if svg == "" {
		return fmt.Errorf("export: nothing to plot")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
