package formulas

import "math"

// Unit conversions applied to the roller surface speed.
const (
	MicrosPerSecond = 1e6
	SecondsPerHour  = 3600.0
	MilesPerKm      = 0.621371
)

// Calibration of the trainer resistance unit. The coefficients are fitted
// values and carry no further physical meaning.
const (
	PowerLinearCoeff = 5.244820
	PowerCubicCoeff  = 0.019168
)

// SpeedMPH converts the time of one cylinder revolution into the linear
// speed at the cylinder surface in miles per hour.
func SpeedMPH(elapsedMicros, cylinderDiameterKm float64) (float64, error) {
	if err := requirePositive("elapsed time", elapsedMicros); err != nil {
		return 0, err
	}
	if err := requirePositive("cylinder diameter", cylinderDiameterKm); err != nil {
		return 0, err
	}

	omega := 2 * math.Pi / elapsedMicros // rad/us
	radius := cylinderDiameterKm / 2
	kmPerMicro := omega * radius

	kmh := kmPerMicro * MicrosPerSecond * SecondsPerHour
	mph := kmh * MilesPerKm
	if err := requireFinite("speed", mph); err != nil {
		return 0, err
	}
	return mph, nil
}

// PowerFromSpeed evaluates the calibration cubic for a speed in mph.
func PowerFromSpeed(mph float64) float64 {
	return PowerLinearCoeff*mph + PowerCubicCoeff*mph*mph*mph
}

// PowerWatts converts the time of one cylinder revolution into watts.
func PowerWatts(elapsedMicros, cylinderDiameterKm float64) (float64, error) {
	mph, err := SpeedMPH(elapsedMicros, cylinderDiameterKm)
	if err != nil {
		return 0, err
	}
	watts := PowerFromSpeed(mph)
	if err := requireFinite("power", watts); err != nil {
		return 0, err
	}
	return watts, nil
}

// CutoffFrequencyHz returns the -3dB point of a single-pole RC low-pass.
func CutoffFrequencyHz(resistanceOhms, capacitanceFarads float64) (float64, error) {
	if err := requirePositive("resistance", resistanceOhms); err != nil {
		return 0, err
	}
	if err := requirePositive("capacitance", capacitanceFarads); err != nil {
		return 0, err
	}
	f := 1 / (2 * math.Pi * resistanceOhms * capacitanceFarads)
	if err := requireFinite("cutoff frequency", f); err != nil {
		return 0, err
	}
	return f, nil
}

// RotationalRateHz derives the cylinder rate for a wheel moving at
// maxLinearSpeedMps. The wheel rate comes from v = wr and is scaled by
// the wheel/cylinder diameter ratio.
func RotationalRateHz(maxLinearSpeedMps, wheelDiameterM, cylinderDiameterM float64) (float64, error) {
	if err := requirePositive("max linear speed", maxLinearSpeedMps); err != nil {
		return 0, err
	}
	if err := requirePositive("wheel diameter", wheelDiameterM); err != nil {
		return 0, err
	}
	if err := requirePositive("cylinder diameter", cylinderDiameterM); err != nil {
		return 0, err
	}

	wheelRate := maxLinearSpeedMps / (0.5 * wheelDiameterM)
	rate := wheelRate * (wheelDiameterM / cylinderDiameterM)
	if err := requireFinite("rotational rate", rate); err != nil {
		return 0, err
	}
	return rate, nil
}
