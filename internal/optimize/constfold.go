package optimize

import (
	"openfxc-ir/internal/ir"
)

// runConstantFolding replaces every pure, non-terminator arithmetic or
// comparison instruction whose operands are all constants with an
// Assign to a freshly allocated canonical Constant value.
func runConstantFolding(m *ir.Module) *ir.Module {
	for _, fn := range m.Functions {
		for _, b := range fn.Blocks {
			for i, inst := range b.Instructions {
				folded, ok := foldInstruction(m, inst)
				if !ok {
					continue
				}
				b.Instructions[i] = folded
			}
		}
	}
	return m
}

func foldInstruction(m *ir.Module, inst ir.Instruction) (ir.Instruction, bool) {
	if inst.Terminator || inst.Result == nil || !inst.IsPure() {
		return inst, false
	}
	if !ir.BinaryOps[inst.Op] || len(inst.Operands) != 2 {
		return inst, false
	}

	operands := make([]constVal, len(inst.Operands))
	for i, id := range inst.Operands {
		val := m.Value(id)
		if val == nil {
			return inst, false
		}
		cv, ok := parseConstVal(val)
		if !ok {
			return inst, false
		}
		operands[i] = cv
	}

	result := m.Value(*inst.Result)
	if result == nil {
		return inst, false
	}
	resultType := ir.ParseType(result.Type)

	folded, ok := foldBinary(inst.Op, operands[0], operands[1], resultType)
	if !ok {
		return inst, false
	}

	newVal := &ir.Value{
		ID:   m.NextValueID(),
		Type: folded.typ.Raw,
		Kind: ir.KindConstant,
		Name: folded.canonicalText(),
	}
	m.Values = append(m.Values, newVal)

	return ir.Instruction{
		Op:       ir.OpAssign,
		Operands: []int{newVal.ID},
		Result:   inst.Result,
		Type:     inst.Type,
	}, true
}

func foldBinary(op ir.Op, a, b constVal, resultType ir.ParsedType) (constVal, bool) {
	if len(a.elems) != len(b.elems) {
		if len(a.elems) == 1 && len(b.elems) > 1 {
			a = splatTo(a, len(b.elems))
		} else if len(b.elems) == 1 && len(a.elems) > 1 {
			b = splatTo(b, len(a.elems))
		} else {
			return constVal{}, false
		}
	}

	if ir.ComparisonOps[op] || op == ir.OpLogicalAnd || op == ir.OpLogicalOr {
		var truth bool
		switch op {
		case ir.OpEq:
			truth = allEqual(a, b, func(x, y float64) bool { return x == y })
		case ir.OpNe:
			truth = allEqual(a, b, func(x, y float64) bool { return x != y })
		case ir.OpLt:
			truth = allEqual(a, b, func(x, y float64) bool { return x < y })
		case ir.OpLe:
			truth = allEqual(a, b, func(x, y float64) bool { return x <= y })
		case ir.OpGt:
			truth = allEqual(a, b, func(x, y float64) bool { return x > y })
		case ir.OpGe:
			truth = allEqual(a, b, func(x, y float64) bool { return x >= y })
		case ir.OpLogicalAnd:
			truth = a.elems[0] != 0 && b.elems[0] != 0
		case ir.OpLogicalOr:
			truth = a.elems[0] != 0 || b.elems[0] != 0
		}
		v := 0.0
		if truth {
			v = 1
		}
		return constVal{typ: ir.ParseType("bool"), elems: []float64{v}}, true
	}

	out := constVal{typ: resultType, elems: make([]float64, len(a.elems))}
	for i := range a.elems {
		x, y := a.elems[i], b.elems[i]
		switch op {
		case ir.OpAdd:
			out.elems[i] = x + y
		case ir.OpSub:
			out.elems[i] = x - y
		case ir.OpMul:
			out.elems[i] = x * y
		case ir.OpDiv:
			if y == 0 {
				return constVal{}, false
			}
			out.elems[i] = x / y
		case ir.OpMod:
			if y == 0 {
				return constVal{}, false
			}
			out.elems[i] = modFloat(x, y)
		default:
			return constVal{}, false
		}
	}
	return out, true
}

func allEqual(a, b constVal, cmp func(x, y float64) bool) bool {
	for i := range a.elems {
		if !cmp(a.elems[i], b.elems[i]) {
			return false
		}
	}
	return true
}

func splatTo(c constVal, n int) constVal {
	out := constVal{typ: c.typ, elems: make([]float64, n)}
	for i := range out.elems {
		out.elems[i] = c.elems[0]
	}
	return out
}

func modFloat(x, y float64) float64 {
	m := x - y*float64(int64(x/y))
	return m
}
