package export

import (
	"fmt"
	"io"
	"os"

	"github.com/phpdave11/gofpdf"
)

// pdf plot area in mm on a landscape A4 page.
const (
	pdfPlotX = 25.0
	pdfPlotY = 35.0
	pdfPlotW = 195.0
	pdfPlotH = 135.0
)

var pdfPalette = [][3]int{
	{0, 160, 160}, {200, 80, 200}, {90, 170, 40}, {220, 150, 30},
	{60, 110, 220}, {210, 60, 60},
}

// PlotPDF draws the series as a vector line plot on a landscape A4 page.
func PlotPDF(w io.Writer, series []Series, title string) error {
	b, ok := boundsOf(series)
	if !ok {
		return fmt.Errorf("export: nothing to plot")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	if title == "" {
		title = "Damped Harmonic Oscillator"
	}
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	toX := func(t float64) float64 {
		return pdfPlotX + (t-b.tMin)/(b.tMax-b.tMin)*pdfPlotW
	}
	toY := func(x float64) float64 {
		return pdfPlotY + pdfPlotH - (x-b.xMin)/(b.xMax-b.xMin)*pdfPlotH
	}

	// Frame, zero line, tick labels.
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.3)
	pdf.Rect(pdfPlotX, pdfPlotY, pdfPlotW, pdfPlotH, "D")
	if b.xMin < 0 && b.xMax > 0 {
		pdf.SetDrawColor(190, 190, 190)
		pdf.Line(pdfPlotX, toY(0), pdfPlotX+pdfPlotW, toY(0))
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	for i := 0; i <= 5; i++ {
		frac := float64(i) / 5
		t := b.tMin + frac*(b.tMax-b.tMin)
		pdf.Text(toX(t)-3, pdfPlotY+pdfPlotH+5, fmt.Sprintf("%.1f", t))

		v := b.xMin + frac*(b.xMax-b.xMin)
		pdf.Text(pdfPlotX-14, toY(v)+1, fmt.Sprintf("%6.2f", v))
	}
	pdf.Text(pdfPlotX+pdfPlotW/2-8, pdfPlotY+pdfPlotH+11, "time (s)")

	// Curves.
	pdf.SetLineWidth(0.4)
	for si, s := range series {
		c := pdfPalette[si%len(pdfPalette)]
		pdf.SetDrawColor(c[0], c[1], c[2])
		if s.Dashed {
			pdf.SetDashPattern([]float64{2, 1.5}, 0)
		} else {
			pdf.SetDashPattern([]float64{}, 0)
		}
		for i := 1; i < len(s.Times); i++ {
			pdf.Line(toX(s.Times[i-1]), toY(s.Xs[i-1]), toX(s.Times[i]), toY(s.Xs[i]))
		}
	}
	pdf.SetDashPattern([]float64{}, 0)

	// Legend below the plot.
	pdf.SetFont("Helvetica", "", 9)
	ly := pdfPlotY + pdfPlotH + 18
	for si, s := range series {
		c := pdfPalette[si%len(pdfPalette)]
		pdf.SetDrawColor(c[0], c[1], c[2])
		pdf.SetLineWidth(0.8)
		pdf.Line(pdfPlotX, ly-1.2, pdfPlotX+8, ly-1.2)
		pdf.SetTextColor(40, 40, 40)
		pdf.Text(pdfPlotX+11, ly, legendText(s.Label))
		ly += 5
	}

	return pdf.Output(w)
}

// WritePDF renders the plot to a file.
func WritePDF(path string, series []Series, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return PlotPDF(f, series, title)
}
