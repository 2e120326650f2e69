package codegen

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownDialect = errors.New("codegen: unknown dialect")

// Dialect describes how a target language spells constants, powers and
// assignments.
type Dialect struct {
	Name   string
	Pi     string
	Pow    func(base string, exp int) string
	Assign func(name, expr string) string
}

var dialects = map[string]Dialect{
	"javascript": {
		Name: "javascript",
		Pi:   "Math.PI",
		Pow:  func(b string, n int) string { return fmt.Sprintf("Math.pow(%s, %d)", b, n) },
		Assign: func(name, expr string) string {
			return fmt.Sprintf("const %s = %s;", name, expr)
		},
	},
	"go": {
		Name: "go",
		Pi:   "math.Pi",
		Pow:  func(b string, n int) string { return fmt.Sprintf("math.Pow(%s, %d)", b, n) },
		Assign: func(name, expr string) string {
			return fmt.Sprintf("%s := %s", name, expr)
		},
	},
	"c": {
		Name: "c",
		Pi:   "M_PI",
		Pow:  func(b string, n int) string { return fmt.Sprintf("pow(%s, %d)", b, n) },
		Assign: func(name, expr string) string {
			return fmt.Sprintf("double %s = %s;", name, expr)
		},
	},
}

// LookupDialect accepts the canonical names plus "js".
func LookupDialect(name string) (Dialect, error) {
	key := strings.ToLower(name)
	if key == "js" {
		key = "javascript"
	}
	d, ok := dialects[key]
	if !ok {
		return Dialect{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownDialect, name, ListDialects())
	}
	return d, nil
}

func ListDialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render prints e in dialect d.
func Render(e Expr, d Dialect) string {
	var sb strings.Builder
	render(&sb, e, d)
	return sb.String()
}

func render(sb *strings.Builder, e Expr, d Dialect) {
	switch n := e.(type) {
	case Num:
		sb.WriteString(formatNumber(float64(n)))
	case Var:
		sb.WriteString(string(n))
	case Pi:
		sb.WriteString(d.Pi)
	case Add:
		for i, term := range n {
			if i > 0 {
				sb.WriteString(" + ")
			}
			render(sb, term, d)
		}
	case Mul:
		for i, f := range n {
			if i > 0 {
				sb.WriteString("*")
			}
			renderOperand(sb, f, d, false)
		}
	case Div:
		renderOperand(sb, n.Top, d, false)
		sb.WriteString("/")
		renderOperand(sb, n.Bottom, d, true)
	case Pow:
		sb.WriteString(d.Pow(Render(n.Base, d), n.Exp))
	default:
		fmt.Fprintf(sb, "/* %T */", e)
	}
}

// renderOperand parenthesizes sums, and products or quotients on the
// right of a division.
func renderOperand(sb *strings.Builder, e Expr, d Dialect, divisor bool) {
	wrap := false
	switch e.(type) {
	case Add:
		wrap = true
	case Mul, Div:
		wrap = divisor
	}
	if wrap {
		sb.WriteString("(")
	}
	render(sb, e, d)
	if wrap {
		sb.WriteString(")")
	}
}

func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'g', 15, 64)
	if strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// Emit writes the mph and watts assignments for the given rig diameter.
func Emit(w io.Writer, dialectName string, cylinderDiameterKm float64, period string) error {
	d, err := LookupDialect(dialectName)
	if err != nil {
		return err
	}

	mph, err := SpeedExpr(cylinderDiameterKm, period)
	if err != nil {
		return err
	}
	watts, err := PowerExpr(cylinderDiameterKm, period)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, d.Assign("mph", Render(mph, d))); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, d.Assign("watts", Render(watts, d)))
	return err
}
