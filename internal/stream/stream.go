// Package stream turns a live sequence of revolution periods into a
// filtered power trace.
package stream

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/spm/internal/formulas"
	"github.com/san-kum/spm/internal/metrics"
)

const (
	DefaultInterval           = time.Second
	DefaultProportionalCutoff = 1000.0 // watts
	DefaultDerivativeCutoff   = 100.0  // watts per sample
)

// MicrosToWatts converts one firmware period to watts. A zero period
// means the roller is stopped and yields zero power.
func MicrosToWatts(micros uint32, cylinderDiameterKm float64) (float64, error) {
	if micros == 0 {
		if _, err := formulas.SpeedMPH(1, cylinderDiameterKm); err != nil {
			return 0, err
		}
		return 0, nil
	}
	return formulas.PowerWatts(float64(micros), cylinderDiameterKm)
}

// Filter rejects sensor spikes. A value is accepted only when it is
// below ProportionalCutoff and within DerivativeCutoff of the last
// accepted value; otherwise the last accepted value is held.
type Filter struct {
	ProportionalCutoff float64
	DerivativeCutoff   float64

	last float64
}

func NewFilter(proportional, derivative float64) *Filter {
	return &Filter{ProportionalCutoff: proportional, DerivativeCutoff: derivative}
}

func (f *Filter) Apply(watts float64) float64 {
	if watts < f.ProportionalCutoff && math.Abs(watts-f.last) < f.DerivativeCutoff {
		f.last = watts
	}
	return f.last
}

func (f *Filter) Last() float64 { return f.last }

func (f *Filter) Reset() { f.last = 0 }

// Trace is a power-over-time recording. Times are seconds since the
// session started; the first sample lands one interval in.
type Trace struct {
	Times  []float64 `json:"times"`
	Micros []uint32  `json:"micros"`
	Raw    []float64 `json:"raw"`
	Watts  []float64 `json:"watts"`

	Metrics map[string]float64 `json:"metrics,omitempty"`
}

func (t *Trace) Len() int { return len(t.Times) }

func (t *Trace) Average() float64 {
	if len(t.Watts) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range t.Watts {
		sum += w
	}
	return sum / float64(len(t.Watts))
}

func (t *Trace) Peak() float64 {
	peak := 0.0
	for _, w := range t.Watts {
		if w > peak {
			peak = w
		}
	}
	return peak
}

type Session struct {
	CylinderDiameterKm float64
	Interval           time.Duration
	Filter             *Filter
	Metrics            []metrics.Metric
}

func NewSession(cylinderDiameterKm float64, interval time.Duration, filter *Filter) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if filter == nil {
		filter = NewFilter(DefaultProportionalCutoff, DefaultDerivativeCutoff)
	}
	return &Session{
		CylinderDiameterKm: cylinderDiameterKm,
		Interval:           interval,
		Filter:             filter,
		Metrics:            metrics.Default(),
	}
}

// Process converts periods sampled once per interval into a trace.
func (s *Session) Process(ctx context.Context, micros []uint32) (*Trace, error) {
	tr := &Trace{
		Times:  make([]float64, 0, len(micros)),
		Micros: make([]uint32, 0, len(micros)),
		Raw:    make([]float64, 0, len(micros)),
		Watts:  make([]float64, 0, len(micros)),
	}
	step := s.Interval.Seconds()

	for _, m := range s.Metrics {
		m.Reset()
	}

	for i, m := range micros {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := MicrosToWatts(m, s.CylinderDiameterKm)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}

		t := float64(i+1) * step
		watts := s.Filter.Apply(raw)
		for _, metric := range s.Metrics {
			metric.Observe(raw, watts, t)
		}

		tr.Times = append(tr.Times, t)
		tr.Micros = append(tr.Micros, m)
		tr.Raw = append(tr.Raw, raw)
		tr.Watts = append(tr.Watts, watts)
	}

	tr.Metrics = make(map[string]float64, len(s.Metrics))
	for _, metric := range s.Metrics {
		tr.Metrics[metric.Name()] = metric.Value()
	}

	return tr, nil
}
