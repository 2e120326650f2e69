package export

import (
	"fmt"
	"io"
	"strings"
)

// CurveSVG draws y against x as a single polyline with labelled axis
// extremes. xs and ys must have equal length.
func CurveSVG(xs, ys []float64, width, height int, strokeColor, xLabel, yLabel string) (string, error) {
	if len(xs) != len(ys) {
		return "", fmt.Errorf("export: series length mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return "", fmt.Errorf("export: need at least 2 points, got %d", len(xs))
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		if xs[i] < minX {
			minX = xs[i]
		}
		if xs[i] > maxX {
			maxX = xs[i]
		}
		if ys[i] < minY {
			minY = ys[i]
		}
		if ys[i] > maxY {
			maxY = ys[i]
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	padX := rangeX * 0.1
	padY := rangeY * 0.1
	lowX, lowY := minX-padX, minY-padY
	spanX, spanY := rangeX+2*padX, rangeY+2*padY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range xs {
		x := (xs[i] - lowX) / spanX * float64(width)
		y := float64(height) - (ys[i]-lowY)/spanY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	sb.WriteString(fmt.Sprintf(`<g fill="#aaaaaa" font-family="monospace" font-size="11">
<text x="4" y="%d">%s %.2f</text>
<text x="%d" y="%d" text-anchor="end">%.2f</text>
<text x="4" y="14">%s %.2f</text>
</g>
`, height-4, xLabel, minX, width-4, height-4, maxX, yLabel, maxY))

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// WriteCurveSVG renders the curve into w.
func WriteCurveSVG(w io.Writer, xs, ys []float64, width, height int, strokeColor, xLabel, yLabel string) error {
	svg, err := CurveSVG(xs, ys, width, height, strokeColor, xLabel, yLabel)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, svg)
	return err
}
