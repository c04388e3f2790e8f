package optimize

import "openfxc-ir/internal/ir"

// runAlgebraicSimplification rewrites pure binary instructions whose
// right-hand operand is a recognized identity or annihilator constant.
func runAlgebraicSimplification(m *ir.Module) *ir.Module {
	for _, fn := range m.Functions {
		for _, b := range fn.Blocks {
			for i, inst := range b.Instructions {
				simplified, ok := simplifyInstruction(m, inst)
				if !ok {
					continue
				}
				b.Instructions[i] = simplified
			}
		}
	}
	return m
}

func simplifyInstruction(m *ir.Module, inst ir.Instruction) (ir.Instruction, bool) {
	if inst.Terminator || inst.Result == nil || !inst.IsPure() {
		return inst, false
	}
	if !ir.BinaryOps[inst.Op] || len(inst.Operands) != 2 {
		return inst, false
	}
	switch inst.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv:
	default:
		return inst, false
	}

	rhs := m.Value(inst.Operands[1])
	if rhs == nil {
		return inst, false
	}
	cv, ok := parseConstVal(rhs)
	if !ok || !isUniform(cv) {
		return inst, false
	}
	n := cv.elems[0]

	switch {
	case (inst.Op == ir.OpAdd || inst.Op == ir.OpSub) && n == 0:
		return ir.Instruction{
			Op:       ir.OpAssign,
			Operands: []int{inst.Operands[0]},
			Result:   inst.Result,
			Type:     inst.Type,
		}, true
	case (inst.Op == ir.OpMul || inst.Op == ir.OpDiv) && n == 1:
		return ir.Instruction{
			Op:       ir.OpAssign,
			Operands: []int{inst.Operands[0]},
			Result:   inst.Result,
			Type:     inst.Type,
		}, true
	case inst.Op == ir.OpMul && n == 0:
		result := m.Value(*inst.Result)
		if result == nil {
			return inst, false
		}
		zero := zeroConstVal(ir.ParseType(result.Type))
		newVal := &ir.Value{
			ID:   m.NextValueID(),
			Type: result.Type,
			Kind: ir.KindConstant,
			Name: zero.canonicalText(),
		}
		m.Values = append(m.Values, newVal)
		return ir.Instruction{
			Op:       ir.OpAssign,
			Operands: []int{newVal.ID},
			Result:   inst.Result,
			Type:     inst.Type,
		}, true
	}
	return inst, false
}

// isUniform reports whether every component of a constant shares the
// same value, so a vector/matrix constant can still match a scalar
// identity rule (e.g. float3(0,0,0) for Add rhs zero).
func isUniform(c constVal) bool {
	if len(c.elems) == 0 {
		return false
	}
	first := c.elems[0]
	for _, e := range c.elems[1:] {
		if e != first {
			return false
		}
	}
	return true
}
