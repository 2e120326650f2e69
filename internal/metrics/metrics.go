// Package metrics accumulates per-session statistics while a power
// trace is being built.
package metrics

// Metric observes one sample at a time. raw is the unfiltered power,
// watts the value the spike filter let through, t the sample time in
// seconds.
type Metric interface {
	Name() string
	Observe(raw, watts, t float64)
	Value() float64
	Reset()
}

// Default returns a fresh set of the metrics saved with every session.
func Default() []Metric {
	return []Metric{
		NewEnergy(),
		NewRejection(),
		NewIdle(),
	}
}
