package metrics

// Rejection is the fraction of samples the spike filter replaced with
// the previously accepted value.
type Rejection struct {
	name     string
	rejected int
	samples  int
}

func NewRejection() *Rejection {
	return &Rejection{name: "rejected_fraction"}
}

func (r *Rejection) Name() string {
	return r.name
}

func (r *Rejection) Observe(raw, watts, t float64) {
	r.samples++
	if raw != watts {
		r.rejected++
	}
}

func (r *Rejection) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.rejected) / float64(r.samples)
}

func (r *Rejection) Reset() {
	r.rejected = 0
	r.samples = 0
}

// Idle is the fraction of samples where the sensor saw no revolution.
type Idle struct {
	name    string
	idle    int
	samples int
}

func NewIdle() *Idle {
	return &Idle{name: "idle_fraction"}
}

func (i *Idle) Name() string {
	return i.name
}

func (i *Idle) Observe(raw, watts, t float64) {
	i.samples++
	if raw == 0 {
		i.idle++
	}
}

func (i *Idle) Value() float64 {
	if i.samples == 0 {
		return 0
	}
	return float64(i.idle) / float64(i.samples)
}

func (i *Idle) Reset() {
	i.idle = 0
	i.samples = 0
}
