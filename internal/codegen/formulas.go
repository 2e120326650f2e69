package codegen

import (
	"github.com/san-kum/spm/internal/formulas"
)

// speedConstant folds the diameter and unit conversions of SpeedMPH so
// that mph = K*pi/t.
func speedConstant(cylinderDiameterKm float64) (float64, error) {
	// any positive period works; only the diameter is being checked
	if _, err := formulas.SpeedMPH(1, cylinderDiameterKm); err != nil {
		return 0, err
	}
	return cylinderDiameterKm * formulas.MicrosPerSecond * formulas.SecondsPerHour * formulas.MilesPerKm, nil
}

// SpeedExpr builds mph as a function of the period variable.
func SpeedExpr(cylinderDiameterKm float64, period string) (Expr, error) {
	k, err := speedConstant(cylinderDiameterKm)
	if err != nil {
		return nil, err
	}
	return Div{Top: Mul{Num(k), Pi{}}, Bottom: Var(period)}, nil
}

// PowerExpr builds watts as a function of the period variable, expanded
// so the speed term does not appear.
func PowerExpr(cylinderDiameterKm float64, period string) (Expr, error) {
	k, err := speedConstant(cylinderDiameterKm)
	if err != nil {
		return nil, err
	}
	linear := Div{
		Top:    Mul{Num(formulas.PowerLinearCoeff * k), Pi{}},
		Bottom: Var(period),
	}
	cubic := Div{
		Top:    Mul{Num(formulas.PowerCubicCoeff * k * k * k), Pow{Base: Pi{}, Exp: 3}},
		Bottom: Pow{Base: Var(period), Exp: 3},
	}
	return Add{linear, cubic}, nil
}
