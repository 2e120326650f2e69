package stream

import (
	"context"
	"time"

	"github.com/san-kum/spm/internal/formulas"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const rigCylinderKm = 54.2e-6

var _ = Describe("MicrosToWatts", func() {
	It("should treat a zero period as a stopped roller", func() {
		w, err := MicrosToWatts(0, rigCylinderKm)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(0.0))
	})

	It("should match the power formula otherwise", func() {
		w, err := MicrosToWatts(25_000, rigCylinderKm)
		Expect(err).NotTo(HaveOccurred())

		expected, _ := formulas.PowerWatts(25_000, rigCylinderKm)
		Expect(w).To(Equal(expected))
	})

	It("should reject a bad diameter even when stopped", func() {
		_, err := MicrosToWatts(0, -1)
		Expect(err).To(MatchError(formulas.ErrDomain))
	})
})

var _ = Describe("Filter", func() {
	var f *Filter

	BeforeEach(func() {
		f = NewFilter(1000, 100)
	})

	It("should accept small steps", func() {
		Expect(f.Apply(50)).To(Equal(50.0))
		Expect(f.Apply(120)).To(Equal(120.0))
		Expect(f.Last()).To(Equal(120.0))
	})

	It("should hold the last value on a derivative spike", func() {
		f.Apply(80)
		Expect(f.Apply(400)).To(Equal(80.0))
	})

	It("should hold the last value above the proportional cutoff", func() {
		f.Apply(90)
		f.Apply(180)
		f.Apply(270)
		Expect(f.Apply(1500)).To(Equal(270.0))
	})

	It("should clear on reset", func() {
		f.Apply(60)
		f.Reset()
		Expect(f.Last()).To(Equal(0.0))
	})
})

var _ = Describe("Session", func() {
	It("should produce one point per sample at the interval", func() {
		s := NewSession(rigCylinderKm, 500*time.Millisecond, nil)

		micros := []uint32{0, 300_000, 200_000, 150_000}
		tr, err := s.Process(context.Background(), micros)
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.Len()).To(Equal(4))
		Expect(tr.Times).To(Equal([]float64{0.5, 1.0, 1.5, 2.0}))
		Expect(tr.Micros).To(Equal(micros))
		Expect(tr.Watts[0]).To(Equal(0.0))

		for i := 1; i < tr.Len(); i++ {
			Expect(tr.Watts[i]).To(BeNumerically(">", tr.Watts[i-1]))
			Expect(tr.Watts[i]).To(Equal(tr.Raw[i]))
		}
	})

	It("should summarise the trace", func() {
		tr := &Trace{
			Times: []float64{1, 2, 3},
			Watts: []float64{10, 20, 30},
		}
		Expect(tr.Average()).To(BeNumerically("~", 20, 1e-12))
		Expect(tr.Peak()).To(Equal(30.0))
	})

	It("should record session metrics", func() {
		s := NewSession(rigCylinderKm, time.Second, nil)
		tr, err := s.Process(context.Background(), []uint32{0, 0, 0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Metrics).To(HaveKeyWithValue("idle_fraction", 1.0))
		Expect(tr.Metrics).To(HaveKeyWithValue("rejected_fraction", 0.0))
		Expect(tr.Metrics).To(HaveKeyWithValue("energy_j", 0.0))

		tr, err = s.Process(context.Background(), []uint32{400_000, 100})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Metrics["idle_fraction"]).To(Equal(0.0))
		Expect(tr.Metrics["rejected_fraction"]).To(Equal(0.5))
		Expect(tr.Metrics["energy_j"]).To(BeNumerically("~", tr.Watts[0]+tr.Watts[1], 1e-9))
	})

	It("should default the interval and filter", func() {
		s := NewSession(rigCylinderKm, 0, nil)
		Expect(s.Interval).To(Equal(DefaultInterval))
		Expect(s.Filter.ProportionalCutoff).To(Equal(DefaultProportionalCutoff))
		Expect(s.Filter.DerivativeCutoff).To(Equal(DefaultDerivativeCutoff))
	})

	It("should stop when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := NewSession(rigCylinderKm, time.Second, nil)
		_, err := s.Process(ctx, []uint32{100_000})
		Expect(err).To(MatchError(context.Canceled))
	})
})
