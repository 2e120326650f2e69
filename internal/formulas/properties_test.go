package formulas

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Formula properties", func() {
	var micros []float64

	BeforeEach(func() {
		micros = Linspace(2.5e4, 1e6, 1000)
	})

	It("should slow down as the period grows", func() {
		speeds, err := SpeedSeries(micros, rigCylinderKm)
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i < len(speeds); i++ {
			Expect(speeds[i]).To(BeNumerically("<", speeds[i-1]))
		}
	})

	It("should raise power with speed", func() {
		prev := 0.0
		for mph := 0.1; mph < 60; mph += 0.1 {
			p := PowerFromSpeed(mph)
			Expect(p).To(BeNumerically(">", prev))
			prev = p
		}
	})

	It("should keep speeds and powers aligned over a sweep", func() {
		speeds, err := SpeedSeries(micros, rigCylinderKm)
		Expect(err).NotTo(HaveOccurred())
		powers, err := PowerSeries(micros, rigCylinderKm)
		Expect(err).NotTo(HaveOccurred())

		Expect(speeds).To(HaveLen(len(micros)))
		Expect(powers).To(HaveLen(len(micros)))

		for i := 1; i < len(micros); i++ {
			speedUp := speeds[i] > speeds[i-1]
			powerUp := powers[i] > powers[i-1]
			Expect(powerUp).To(Equal(speedUp))
		}
	})

	It("should return finite values for positive inputs", func() {
		for _, t := range []float64{1, 1e3, 2.5e4, 1e6, 1e9} {
			for _, d := range []float64{1e-9, rigCylinderKm, 1} {
				s, err := SpeedMPH(t, d)
				Expect(err).NotTo(HaveOccurred())
				Expect(math.IsNaN(s) || math.IsInf(s, 0)).To(BeFalse())

				p, err := PowerWatts(t, d)
				Expect(err).NotTo(HaveOccurred())
				Expect(math.IsNaN(p) || math.IsInf(p, 0)).To(BeFalse())
			}
		}

		f, err := CutoffFrequencyHz(1, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(BeNumerically("~", 1/(2*math.Pi), 1e-12))
	})

	It("should scale rotational rate linearly with speed", func() {
		base, err := RotationalRateHz(1, 2.1, 0.0762)
		Expect(err).NotTo(HaveOccurred())

		for _, v := range []float64{0.5, 3, 15.65, 40} {
			rate, err := RotationalRateHz(v, 2.1, 0.0762)
			Expect(err).NotTo(HaveOccurred())
			Expect(rate).To(BeNumerically("~", v*base, 1e-9))
		}
	})

	It("should reject non-positive inputs with a domain error", func() {
		_, err := SpeedMPH(0, rigCylinderKm)
		Expect(err).To(MatchError(ErrDomain))

		_, err = CutoffFrequencyHz(50e3, 0)
		var de *DomainError
		Expect(err).To(BeAssignableToTypeOf(de))
		Expect(err).To(MatchError(ContainSubstring("capacitance")))
	})
})
