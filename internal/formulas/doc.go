// Package formulas provides the closed-form calculations for the trainer
// measurement rig.
//
// Every function is pure: results depend only on the arguments and no
// package state is mutated, so sweeps may be evaluated in parallel.
//
//   - [SpeedMPH]: roller period to linear speed
//   - [PowerWatts]: roller period to mechanical power
//   - [CutoffFrequencyHz]: single-pole RC low-pass cutoff
//   - [RotationalRateHz]: cylinder rate from wheel speed and diameter ratio
//
// # Example
//
//	mph, err := formulas.SpeedMPH(1_000_000, 54.2e-6)
//	watts, err := formulas.PowerWatts(1_000_000, 54.2e-6)
//
// # Errors
//
// Non-positive physical quantities are rejected with a [*DomainError]
// that matches [ErrDomain] under errors.Is.
package formulas
