package metrics

// Energy integrates filtered power over time in joules, holding each
// sample for the gap since the previous one.
type Energy struct {
	name   string
	prev   float64
	joules float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy_j"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(raw, watts, t float64) {
	e.joules += watts * (t - e.prev)
	e.prev = t
}

func (e *Energy) Value() float64 { return e.joules }

func (e *Energy) Reset() {
	e.prev = 0
	e.joules = 0
}
