package viz

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spm/internal/stream"
	"github.com/san-kum/spm/internal/sweep"
)

const (
	plotWidth  = 80
	plotHeight = 15
)

// Resample linearly interpolates (xs, ys) onto n evenly spaced x values.
// The pairs need not be sorted.
func Resample(xs, ys []float64, n int) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("viz: series length mismatch: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 || n < 2 {
		return nil, nil, fmt.Errorf("viz: need at least 2 points")
	}

	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	lo, hi := xs[idx[0]], xs[idx[len(idx)-1]]
	outX := make([]float64, n)
	outY := make([]float64, n)

	j := 0
	for k := 0; k < n; k++ {
		x := lo + (hi-lo)*float64(k)/float64(n-1)
		for j < len(idx)-2 && xs[idx[j+1]] < x {
			j++
		}
		x0, x1 := xs[idx[j]], xs[idx[j+1]]
		y0, y1 := ys[idx[j]], ys[idx[j+1]]

		outX[k] = x
		if x1 == x0 {
			outY[k] = y0
		} else {
			outY[k] = y0 + (y1-y0)*(x-x0)/(x1-x0)
		}
	}

	return outX, outY, nil
}

// PowerCurve plots watts against speed. The speed axis runs left to
// right from the slowest to the fastest sample.
func PowerCurve(res *sweep.Result) (string, error) {
	xs, ys, err := Resample(res.Speeds, res.Powers, plotWidth)
	if err != nil {
		return "", err
	}

	graph := asciigraph.Plot(ys,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("power [watts] vs speed %.2f..%.2f [mph]", xs[0], xs[len(xs)-1])),
	)
	return graph, nil
}

// TracePlot plots filtered watts against session time.
func TracePlot(tr *stream.Trace) (string, error) {
	if tr.Len() == 0 {
		return "", fmt.Errorf("viz: no data to plot")
	}

	data := tr.Watts
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	caption := fmt.Sprintf("power [watts] over %.1f [min]", tr.Times[tr.Len()-1]/60)
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.Caption(caption),
	), nil
}
