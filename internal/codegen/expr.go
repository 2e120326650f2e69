// Package codegen emits the speed and power formulas as source text so
// they can be embedded in the trainer web page or firmware.
package codegen

import (
	"fmt"
	"math"
)

// Expr is a node of a closed-form formula.
type Expr interface {
	Eval(vars map[string]float64) (float64, error)
}

type (
	Num float64
	Var string
	Pi  struct{}
	Add []Expr
	Mul []Expr
	Div struct{ Top, Bottom Expr }
	Pow struct {
		Base Expr
		Exp  int
	}
)

func (n Num) Eval(map[string]float64) (float64, error) { return float64(n), nil }

func (v Var) Eval(vars map[string]float64) (float64, error) {
	x, ok := vars[string(v)]
	if !ok {
		return 0, fmt.Errorf("codegen: unbound variable %q", string(v))
	}
	return x, nil
}

func (Pi) Eval(map[string]float64) (float64, error) { return math.Pi, nil }

func (a Add) Eval(vars map[string]float64) (float64, error) {
	sum := 0.0
	for _, e := range a {
		v, err := e.Eval(vars)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func (m Mul) Eval(vars map[string]float64) (float64, error) {
	prod := 1.0
	for _, e := range m {
		v, err := e.Eval(vars)
		if err != nil {
			return 0, err
		}
		prod *= v
	}
	return prod, nil
}

func (d Div) Eval(vars map[string]float64) (float64, error) {
	top, err := d.Top.Eval(vars)
	if err != nil {
		return 0, err
	}
	bottom, err := d.Bottom.Eval(vars)
	if err != nil {
		return 0, err
	}
	return top / bottom, nil
}

func (p Pow) Eval(vars map[string]float64) (float64, error) {
	b, err := p.Base.Eval(vars)
	if err != nil {
		return 0, err
	}
	return math.Pow(b, float64(p.Exp)), nil
}
