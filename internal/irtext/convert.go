package irtext

import "openfxc-ir/internal/ir"

// ToModule converts a parsed Document into an ir.Module. It performs no
// validation of its own; callers run the invariant validator afterward
// the same way Lowering and Optimization do.
func ToModule(doc *Document) *ir.Module {
	m := &ir.Module{FormatVersion: doc.FormatVersion, Profile: doc.Profile}
	if doc.EntryPoint != nil {
		m.EntryPoint = &ir.EntryPoint{
			Function: doc.EntryPoint.Function,
			Stage:    ir.ShaderStage(doc.EntryPoint.Stage),
		}
	}
	for _, item := range doc.Items {
		switch {
		case item.Value != nil:
			m.Values = append(m.Values, valueFromDecl(item.Value))
		case item.Resource != nil:
			m.Resources = append(m.Resources, resourceFromDecl(item.Resource))
		case item.Function != nil:
			m.Functions = append(m.Functions, functionFromDecl(item.Function))
		case item.Technique != nil:
			m.Techniques = append(m.Techniques, techniqueFromDecl(item.Technique))
		case item.Diagnostic != nil:
			m.Diagnostics = append(m.Diagnostics, ir.Diagnostic{
				Severity: ir.Severity(item.Diagnostic.Severity),
				Stage:    ir.Stage(item.Diagnostic.Stage),
				Message:  item.Diagnostic.Message,
			})
		}
	}
	return m
}

func valueFromDecl(d *ValueDecl) *ir.Value {
	return &ir.Value{
		ID:       d.ID,
		Type:     d.Type,
		Kind:     ir.ValueKind(d.Kind),
		Name:     d.Name,
		Semantic: d.Semantic,
	}
}

func resourceFromDecl(d *ResourceDecl) *ir.Resource {
	return &ir.Resource{
		Name:     d.Name,
		Kind:     ir.ValueKind(d.Kind),
		Type:     d.Type,
		Writable: d.Writable == "true",
	}
}

func functionFromDecl(d *FunctionDecl) *ir.Function {
	fn := &ir.Function{
		Name:       d.Name,
		ReturnType: d.ReturnType,
	}
	for _, p := range d.Params {
		fn.Params = append(fn.Params, atoiOrZero(p))
	}
	for _, bd := range d.Blocks {
		fn.Blocks = append(fn.Blocks, blockFromDecl(bd))
	}
	return fn
}

func blockFromDecl(d *BlockDecl) *ir.Block {
	b := &ir.Block{ID: d.ID}
	for _, id := range d.Instructions {
		b.Instructions = append(b.Instructions, instructionFromDecl(id))
	}
	return b
}

func instructionFromDecl(d *InsnDecl) ir.Instruction {
	inst := ir.Instruction{
		Op:         ir.Op(d.Op),
		Type:       d.Type,
		Tag:        d.Tag,
		Terminator: d.Term != 0,
	}
	for _, o := range d.Operands {
		inst.Operands = append(inst.Operands, atoiOrZero(o))
	}
	if d.Result >= 0 {
		r := d.Result
		inst.Result = &r
	}
	return inst
}

func techniqueFromDecl(d *TechniqueDecl) *ir.Technique {
	t := &ir.Technique{Name: d.Name}
	for _, pd := range d.Passes {
		t.Passes = append(t.Passes, passFromDecl(pd))
	}
	return t
}

func passFromDecl(d *PassDecl) ir.Pass {
	p := ir.Pass{Name: d.Name}
	for _, bd := range d.Bindings {
		p.Bindings = append(p.Bindings, ir.ShaderBinding{
			Stage:   ir.ShaderStage(bd.Stage),
			Profile: bd.Profile,
			Entry:   bd.Entry,
		})
	}
	for _, sd := range d.States {
		p.States = append(p.States, ir.StateAssignment{Name: sd.Name, Value: sd.Value})
	}
	return p
}

func atoiOrZero(s string) int {
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}
