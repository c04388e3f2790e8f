// Package validate implements the Invariant Validator: a pure function
// from an ir.Module to a list of diagnostics, shared between the
// Lowering and Optimization pipelines.
package validate

import (
	"openfxc-ir/internal/ir"
)

// Validate runs every structural and type-level invariant check against
// module and returns the diagnostics produced. It never mutates module.
func Validate(module *ir.Module) []ir.Diagnostic {
	v := &validator{module: module}
	v.checkFormatVersion()
	v.checkValues()
	v.checkBackendLeak()

	for _, fn := range module.Functions {
		v.checkFunction(fn)
	}
	return v.diags
}

type validator struct {
	module *ir.Module
	diags  []ir.Diagnostic
}

func (v *validator) errf(format string, args ...interface{}) {
	v.diags = append(v.diags, ir.Errorf(ir.StageInvariant, format, args...))
}

func (v *validator) checkFormatVersion() {
	if v.module.FormatVersion != 1 {
		v.errf("formatVersion must be 1, got %d", v.module.FormatVersion)
	}
}

// checkValues enforces unique positive ids and non-empty types.
// Operand/result references are checked per function since uniqueness
// of result definitions is scoped to a function.
func (v *validator) checkValues() {
	seen := make(map[int]bool)
	for _, val := range v.module.Values {
		if val.ID <= 0 {
			v.errf("value id %d must be positive", val.ID)
		}
		if seen[val.ID] {
			v.errf("duplicate value id %d", val.ID)
		}
		seen[val.ID] = true
		if val.Type == "" {
			v.errf("value %d declares no type", val.ID)
		}
	}
}

func (v *validator) valueExists(id int) bool {
	return v.module.Value(id) != nil
}

func (v *validator) checkFunction(fn *ir.Function) {
	if len(fn.Blocks) == 0 {
		v.errf("function %q must have at least one block", fn.Name)
		return
	}
	entry := fn.Blocks[0]
	if entry.ID == "" {
		v.errf("function %q entry block id must be non-empty", fn.Name)
	}

	blockIDs := make(map[string]*ir.Block)
	for _, b := range fn.Blocks {
		if _, dup := blockIDs[b.ID]; dup {
			v.errf("function %q has duplicate block id %q", fn.Name, b.ID)
			continue
		}
		blockIDs[b.ID] = b
	}

	defined := make(map[int]bool)
	for _, b := range fn.Blocks {
		v.checkBlock(fn, b, blockIDs)
		for _, inst := range b.Instructions {
			if inst.Result == nil {
				continue
			}
			r := *inst.Result
			if defined[r] {
				v.errf("value %d defined more than once in function %q", r, fn.Name)
			}
			defined[r] = true
			val := v.module.Value(r)
			if val == nil {
				v.errf("instruction result %d in function %q has no matching value declaration", r, fn.Name)
				continue
			}
			if inst.Type == "" {
				v.errf("instruction %s defining value %d in function %q declares no type", inst.Op, r, fn.Name)
			} else if inst.Type != val.Type {
				v.errf("instruction %s in function %q: type %s does not match result value %d's type %s", inst.Op, fn.Name, inst.Type, r, val.Type)
			}
		}
	}

	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			for _, op := range inst.Operands {
				if !v.valueExists(op) {
					v.errf("instruction %s in function %q/%s references unknown value %d", inst.Op, fn.Name, b.ID, op)
				}
			}
		}
	}

	v.checkTypeRules(fn)
	v.checkReachability(fn, blockIDs)
}

func (v *validator) checkBlock(fn *ir.Function, b *ir.Block, blockIDs map[string]*ir.Block) {
	if len(b.Instructions) == 0 {
		v.errf("block %q in function %q has no terminator", b.ID, fn.Name)
		return
	}
	termCount := 0
	for i, inst := range b.Instructions {
		isLast := i == len(b.Instructions)-1
		if inst.Terminator {
			termCount++
			if !isLast {
				v.errf("block %q in function %q has a terminator before its last instruction", b.ID, fn.Name)
			}
			v.checkTerminatorTargets(fn, b, inst, blockIDs)
		}
	}
	if termCount == 0 {
		v.errf("block %q in function %q does not terminate", b.ID, fn.Name)
	} else if termCount > 1 {
		v.errf("block %q in function %q has %d terminators, expected exactly one", b.ID, fn.Name, termCount)
	}
}

func (v *validator) checkTerminatorTargets(fn *ir.Function, b *ir.Block, inst ir.Instruction, blockIDs map[string]*ir.Block) {
	switch inst.Op {
	case ir.OpBranch:
		if inst.Tag == "" {
			v.errf("Branch in %q/%s has an empty target tag", fn.Name, b.ID)
			return
		}
		if _, ok := blockIDs[inst.Tag]; !ok {
			v.errf("Branch in %q/%s targets unknown block %q", fn.Name, b.ID, inst.Tag)
		}
	case ir.OpBranchCond:
		then, els, ok := ir.ParseBranchCondTag(inst.Tag)
		if !ok || then == "" || els == "" {
			v.errf("BranchCond in %q/%s must name exactly two targets, got tag %q", fn.Name, b.ID, inst.Tag)
			return
		}
		if _, ok := blockIDs[then]; !ok {
			v.errf("BranchCond in %q/%s then-target %q does not exist", fn.Name, b.ID, then)
		}
		if _, ok := blockIDs[els]; !ok {
			v.errf("BranchCond in %q/%s else-target %q does not exist", fn.Name, b.ID, els)
		}
		if len(inst.Operands) != 1 {
			v.errf("BranchCond in %q/%s must have exactly one condition operand", fn.Name, b.ID)
			return
		}
		cond := v.module.Value(inst.Operands[0])
		if cond != nil && cond.Type != "bool" {
			v.errf("BranchCond condition in %q/%s must be bool, got %s", fn.Name, b.ID, cond.Type)
		}
	}
}

// checkReachability performs a BFS from the entry block over terminator
// edges and flags any block that is not reached.
func (v *validator) checkReachability(fn *ir.Function, blockIDs map[string]*ir.Block) {
	if len(fn.Blocks) == 0 {
		return
	}
	entry := fn.Blocks[0]
	reached := map[string]bool{entry.ID: true}
	queue := []string{entry.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		blk := blockIDs[id]
		if blk == nil {
			continue
		}
		for _, target := range successors(blk) {
			if !reached[target] {
				reached[target] = true
				queue = append(queue, target)
			}
		}
	}
	for _, b := range fn.Blocks {
		if !reached[b.ID] {
			v.errf("block %q in function %q is not reachable from entry", b.ID, fn.Name)
		}
	}
}

func successors(b *ir.Block) []string {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	switch last.Op {
	case ir.OpBranch:
		if last.Tag != "" {
			return []string{last.Tag}
		}
	case ir.OpBranchCond:
		then, els, ok := ir.ParseBranchCondTag(last.Tag)
		if ok {
			return []string{then, els}
		}
	}
	return nil
}

// checkTypeRules applies the per-op type rules for Assign, binary ops,
// Return, Swizzle and Store.
func (v *validator) checkTypeRules(fn *ir.Function) {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instructions {
			switch {
			case inst.Op == ir.OpAssign:
				v.checkAssign(fn, b, inst)
			case ir.BinaryOps[inst.Op]:
				v.checkBinary(fn, b, inst)
			case ir.UnaryOps[inst.Op]:
				v.checkUnary(fn, b, inst)
			case inst.Op == ir.OpReturn:
				v.checkReturn(fn, b, inst)
			case inst.Op == ir.OpSwizzle:
				v.checkSwizzle(fn, b, inst)
			case inst.Op == ir.OpStore:
				v.checkStore(fn, b, inst)
			}
		}
	}
}

func (v *validator) checkAssign(fn *ir.Function, b *ir.Block, inst ir.Instruction) {
	if inst.Result == nil || len(inst.Operands) != 1 {
		return
	}
	result := v.module.Value(*inst.Result)
	operand := v.module.Value(inst.Operands[0])
	if result == nil || operand == nil {
		return
	}
	if result.Type != operand.Type {
		v.errf("Assign in %q/%s: result type %s does not match operand type %s", fn.Name, b.ID, result.Type, operand.Type)
	}
}

func (v *validator) checkBinary(fn *ir.Function, b *ir.Block, inst ir.Instruction) {
	if len(inst.Operands) != 2 {
		v.errf("%s in %q/%s must have exactly two operands", inst.Op, fn.Name, b.ID)
		return
	}
	left := v.module.Value(inst.Operands[0])
	right := v.module.Value(inst.Operands[1])
	if left == nil || right == nil {
		return
	}
	lt := ir.ParseType(left.Type)
	rt := ir.ParseType(right.Type)
	if ir.ComparisonOps[inst.Op] || inst.Op == ir.OpLogicalAnd || inst.Op == ir.OpLogicalOr {
		if inst.Op == ir.OpLogicalAnd || inst.Op == ir.OpLogicalOr {
			if left.Type != "bool" || right.Type != "bool" {
				v.errf("%s in %q/%s requires bool operands, got %s and %s", inst.Op, fn.Name, b.ID, left.Type, right.Type)
			}
			return
		}
		if !ir.SameNumericScalar(lt, rt) {
			v.errf("%s in %q/%s requires matching numeric scalar operands, got %s and %s", inst.Op, fn.Name, b.ID, left.Type, right.Type)
		}
		return
	}
	if !ir.SameNumericScalar(lt, rt) {
		v.errf("%s in %q/%s requires matching numeric scalar operands, got %s and %s", inst.Op, fn.Name, b.ID, left.Type, right.Type)
		return
	}
	if inst.Result != nil {
		result := v.module.Value(*inst.Result)
		if result != nil {
			rst := ir.ParseType(result.Type)
			if result.Type != "bool" && rst.Scalar != lt.Scalar {
				v.errf("%s in %q/%s: result scalar %s does not match operand scalar %s", inst.Op, fn.Name, b.ID, result.Type, left.Type)
			}
		}
	}
}

func (v *validator) checkUnary(fn *ir.Function, b *ir.Block, inst ir.Instruction) {
	if len(inst.Operands) != 1 {
		v.errf("%s in %q/%s must have exactly one operand", inst.Op, fn.Name, b.ID)
		return
	}
	if inst.Result == nil {
		return
	}
	result := v.module.Value(*inst.Result)
	operand := v.module.Value(inst.Operands[0])
	if result == nil || operand == nil {
		return
	}
	if result.Type != operand.Type {
		v.errf("%s in %q/%s must preserve its operand type, got %s from %s", inst.Op, fn.Name, b.ID, result.Type, operand.Type)
	}
}

func (v *validator) checkReturn(fn *ir.Function, b *ir.Block, inst ir.Instruction) {
	if len(inst.Operands) == 0 {
		if fn.ReturnType != "" && fn.ReturnType != "void" {
			v.errf("Return in %q/%s has no value but function returns %s", fn.Name, b.ID, fn.ReturnType)
		}
		return
	}
	val := v.module.Value(inst.Operands[0])
	if val == nil {
		return
	}
	want := ir.ParseType(fn.ReturnType)
	got := ir.ParseType(val.Type)
	if want.Scalar != got.Scalar || want.ComponentCount() != got.ComponentCount() {
		v.errf("Return in %q/%s: value type %s does not match declared return type %s", fn.Name, b.ID, val.Type, fn.ReturnType)
	}
}

func (v *validator) checkSwizzle(fn *ir.Function, b *ir.Block, inst ir.Instruction) {
	if inst.Result == nil || len(inst.Operands) != 1 {
		return
	}
	src := v.module.Value(inst.Operands[0])
	result := v.module.Value(*inst.Result)
	if src == nil || result == nil {
		return
	}
	srcType := ir.ParseType(src.Type)
	resultType := ir.ParseType(result.Type)
	if srcType.Scalar != "" && resultType.Scalar != srcType.Scalar {
		v.errf("Swizzle in %q/%s must preserve scalar type, got %s from %s", fn.Name, b.ID, result.Type, src.Type)
	}
	if resultType.ComponentCount() != len(inst.Tag) {
		v.errf("Swizzle in %q/%s: result component count %d does not match tag %q", fn.Name, b.ID, resultType.ComponentCount(), inst.Tag)
	}
}

func (v *validator) checkStore(fn *ir.Function, b *ir.Block, inst ir.Instruction) {
	if len(inst.Operands) != 2 && len(inst.Operands) != 3 {
		v.errf("Store in %q/%s must have 2 or 3 operands, got %d", fn.Name, b.ID, len(inst.Operands))
		return
	}
	target := v.module.Value(inst.Operands[0])
	value := v.module.Value(inst.Operands[len(inst.Operands)-1])
	if target == nil || value == nil {
		return
	}
	targetType := ir.ParseType(target.Type)
	if targetType.IsResource() {
		return
	}
	valueType := ir.ParseType(value.Type)
	if !ir.SameNumericScalar(targetType, valueType) && target.Type != value.Type {
		v.errf("Store in %q/%s requires matching numeric scalar between target %s and value %s", fn.Name, b.ID, target.Type, value.Type)
	}
}

// checkBackendLeak scans the module's profile, entry point, value types
// and names, resources, instruction ops, tags and types, and technique,
// pass and state names and values for a whole-word, case-insensitive
// back-end token. Shader bindings, value semantics and diagnostic
// messages are not scanned.
func (v *validator) checkBackendLeak() {
	check := func(field, s string) {
		if tok, found := ir.ContainsBackendToken(s); found {
			v.diags = append(v.diags, ir.Errorf(ir.StageInvariant, "backend leak: %s %q contains forbidden token %q", field, s, tok))
		}
	}

	check("profile", v.module.Profile)
	if v.module.EntryPoint != nil {
		check("entry point function", v.module.EntryPoint.Function)
		check("entry point stage", string(v.module.EntryPoint.Stage))
	}
	for _, val := range v.module.Values {
		check("value type", val.Type)
		check("value name", val.Name)
	}
	for _, r := range v.module.Resources {
		check("resource kind", string(r.Kind))
		check("resource name", r.Name)
		check("resource type", r.Type)
	}
	for _, fn := range v.module.Functions {
		for _, b := range fn.Blocks {
			for _, inst := range b.Instructions {
				check("op name", string(inst.Op))
				check("tag", inst.Tag)
				check("type", inst.Type)
			}
		}
	}
	for _, t := range v.module.Techniques {
		check("technique name", t.Name)
		for _, p := range t.Passes {
			check("pass name", p.Name)
			for _, st := range p.States {
				check("state name", st.Name)
				check("state value", st.Value)
			}
		}
	}
}
