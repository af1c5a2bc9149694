package viz

// Line is one displacement curve to draw. Times must be increasing.
type Line struct {
	Times []float64
	Xs    []float64
}

// Bounds returns the shared y-range of the lines, padded and always including
// zero so the equilibrium axis stays visible.
func Bounds(lines []Line) (lo, hi float64) {
	lo, hi = 0, 0
	for _, ln := range lines {
		for _, x := range ln.Xs {
			if x < lo {
				lo = x
			}
			if x > hi {
				hi = x
			}
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

// RenderCurves draws the lines onto a braille canvas of the given cell size
// and returns the rendered rows. The first line is drawn last so the live
// curve sits on top of saved traces; a dotted zero axis is drawn underneath.
func RenderCurves(width, height int, lines []Line) string {
	c := NewCanvas(width, height)
	if len(lines) == 0 {
		return c.String()
	}

	lo, hi := Bounds(lines)
	tMax := 0.0
	for _, ln := range lines {
		if n := len(ln.Times); n > 0 && ln.Times[n-1] > tMax {
			tMax = ln.Times[n-1]
		}
	}
	if tMax <= 0 {
		return c.String()
	}

	pw := width*2 - 1
	ph := height*4 - 1
	px := func(t float64) int { return int(t / tMax * float64(pw)) }
	py := func(x float64) int { return ph - int((x-lo)/(hi-lo)*float64(ph)) }

	for x := 0; x <= pw; x += 3 {
		c.Set(x, py(0))
	}

	for i := len(lines) - 1; i >= 0; i-- {
		ln := lines[i]
		if len(ln.Times) < 2 || len(ln.Times) != len(ln.Xs) {
			continue
		}
		prevX, prevY := px(ln.Times[0]), py(ln.Xs[0])
		for j := 1; j < len(ln.Times); j++ {
			x, y := px(ln.Times[j]), py(ln.Xs[j])
			c.DrawLine(prevX, prevY, x, y)
			prevX, prevY = x, y
		}
	}

	return c.String()
}
