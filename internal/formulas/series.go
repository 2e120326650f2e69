package formulas

import "fmt"

// SpeedSeries maps SpeedMPH over an ordered sequence of periods. If any
// sample is rejected the whole call fails and no values are returned.
func SpeedSeries(elapsedMicros []float64, cylinderDiameterKm float64) ([]float64, error) {
	out := make([]float64, len(elapsedMicros))
	for i, t := range elapsedMicros {
		v, err := SpeedMPH(t, cylinderDiameterKm)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// PowerSeries maps PowerWatts over an ordered sequence of periods.
func PowerSeries(elapsedMicros []float64, cylinderDiameterKm float64) ([]float64, error) {
	out := make([]float64, len(elapsedMicros))
	for i, t := range elapsedMicros {
		w, err := PowerWatts(t, cylinderDiameterKm)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = w
	}
	return out, nil
}

// Linspace returns n evenly spaced values over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
