package optimize

import (
	"fmt"
	"strconv"
	"strings"

	"openfxc-ir/internal/ir"
)

// constVal is the eagerly-parsed form of a Constant Value's name, per
// the Design Notes guidance to avoid re-parsing stringly-typed
// constants inside every pass. elems holds one float64 per component,
// in declaration order; a scalar has exactly one element.
type constVal struct {
	typ   ir.ParsedType
	elems []float64
}

// parseConstVal parses a Value of kind Constant into its typed form.
// ok is false when the value is not a constant or its name does not
// parse as a scalar/vector/matrix literal of its declared type.
func parseConstVal(v *ir.Value) (constVal, bool) {
	if v == nil || v.Kind != ir.KindConstant {
		return constVal{}, false
	}
	pt := ir.ParseType(v.Type)
	name := strings.TrimSpace(v.Name)

	switch pt.Kind {
	case ir.TypeScalar:
		f, ok := parseScalarLiteral(name, pt.Scalar)
		if !ok {
			return constVal{}, false
		}
		return constVal{typ: pt, elems: []float64{f}}, true
	case ir.TypeVector:
		elems, ok := parseAggregateLiteral(name, pt.ComponentCount())
		if !ok {
			return constVal{}, false
		}
		return constVal{typ: pt, elems: elems}, true
	case ir.TypeMatrix:
		n := pt.Rows * pt.Cols
		elems, ok := parseAggregateLiteral(name, n)
		if !ok {
			return constVal{}, false
		}
		return constVal{typ: pt, elems: elems}, true
	}
	return constVal{}, false
}

func parseScalarLiteral(s string, scalar ir.Scalar) (float64, bool) {
	if scalar == ir.ScalarBool {
		switch s {
		case "true":
			return 1, true
		case "false":
			return 0, true
		}
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseAggregateLiteral parses forms like "float3(1,2,3)" or the
// scalar-splat form "float3(1)" (expanded to n copies).
func parseAggregateLiteral(s string, n int) ([]float64, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	inner := s[open+1 : len(s)-1]
	parts := strings.Split(inner, ",")
	elems := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		elems = append(elems, f)
	}
	if len(elems) == 1 && n > 1 {
		splat := elems[0]
		elems = make([]float64, n)
		for i := range elems {
			elems[i] = splat
		}
		return elems, true
	}
	if len(elems) != n {
		return nil, false
	}
	return elems, true
}

// canonicalText renders a constVal back to its textual name, per the
// canonical form rule (no trailing zeroes, scalar prints bare).
func (c constVal) canonicalText() string {
	if c.typ.Kind == ir.TypeScalar {
		if c.typ.Scalar == ir.ScalarBool {
			if c.elems[0] != 0 {
				return "true"
			}
			return "false"
		}
		return formatNumber(c.elems[0])
	}
	parts := make([]string, len(c.elems))
	for i, e := range c.elems {
		parts[i] = formatNumber(e)
	}
	return fmt.Sprintf("%s(%s)", c.typ.Raw, strings.Join(parts, ","))
}

func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}

// zeroConstVal returns the all-zero constant of the given type.
func zeroConstVal(t ir.ParsedType) constVal {
	n := t.ComponentCount()
	if n == 0 {
		n = 1
	}
	return constVal{typ: t, elems: make([]float64, n)}
}
