// Package lower implements the Lowering Pipeline: translating an
// opaque external semantic model into the backend-agnostic IR.
// Lowering never aborts the whole module; unsupported
// constructs and unresolved references are recorded as diagnostics and
// lowering continues best-effort.
package lower

import (
	"fmt"
	"strings"

	"openfxc-ir/internal/ir"
	"openfxc-ir/internal/semmodel"
	"openfxc-ir/internal/validate"
)

// Request names the inputs lower(request) consults beyond the
// semantic model itself.
type Request struct {
	Model           *semmodel.Model
	ProfileOverride string
	EntryOverride   string
}

// Lower runs the full lowering algorithm and appends invariant
// validator diagnostics before returning.
func Lower(req Request) *ir.Module {
	m := ir.NewModule(resolveProfile(req))
	b := &builder{module: m, model: req.Model, bindings: map[int]int{}}

	ep, ok := b.resolveEntry(req)
	if !ok {
		m.AddDiagnostic(ir.Errorf(ir.StageLower, "no matching entry point found"))
		m.AddDiagnostics(validate.Validate(m))
		return m
	}
	m.EntryPoint = &ir.EntryPoint{Function: ep.Name, Stage: mapStage(ep.Stage)}

	entrySymbol := req.Model.Symbol(ep.SymbolID)
	if entrySymbol == nil {
		m.AddDiagnostic(ir.Errorf(ir.StageLower, "entry %q has no resolved symbol", ep.Name))
	}

	b.lowerResources()

	fn := &ir.Function{Name: ep.Name}
	if entrySymbol != nil {
		fn.ReturnType = entrySymbol.Type
	}
	b.fn = fn
	m.Functions = append(m.Functions, fn)

	b.newBlock("entry")
	b.lowerParameters(entrySymbol)

	if entrySymbol != nil {
		if declNode := req.Model.Node(entrySymbol.DeclNodeID); declNode != nil {
			b.lowerBlockNode(declNode)
		} else {
			m.AddDiagnostic(ir.Errorf(ir.StageLower, "entry %q declaration node not found", ep.Name))
		}
	}

	b.finalize()
	b.lowerTechniques()
	m.AddDiagnostics(validate.Validate(m))
	return m
}

// lowerTechniques forwards the semantic model's technique/pass metadata
// into the IR largely unchanged.
func (b *builder) lowerTechniques() {
	for _, t := range b.model.Techniques {
		out := ir.Technique{Name: t.Name}
		for _, p := range t.Passes {
			op := ir.Pass{Name: p.Name}
			for _, bnd := range p.Bindings {
				op.Bindings = append(op.Bindings, ir.ShaderBinding{
					Stage:   mapStage(bnd.Stage),
					Profile: bnd.Profile,
					Entry:   bnd.Entry,
				})
			}
			for _, st := range p.States {
				op.States = append(op.States, ir.StateAssignment{Name: st.Name, Value: st.Value})
			}
			out.Passes = append(out.Passes, op)
		}
		b.module.Techniques = append(b.module.Techniques, &out)
	}
}

func resolveProfile(req Request) string {
	if req.ProfileOverride != "" {
		return req.ProfileOverride
	}
	if req.Model != nil && req.Model.Profile != "" {
		return req.Model.Profile
	}
	return "unknown"
}

func mapStage(s string) ir.ShaderStage {
	switch strings.ToLower(s) {
	case "vertex":
		return ir.StageVertex
	case "pixel", "fragment":
		return ir.StagePixel
	case "geometry":
		return ir.StageGeometry
	case "hull":
		return ir.StageHull
	case "domain":
		return ir.StageDomain
	case "compute":
		return ir.StageCompute
	default:
		return ir.StageUnknown
	}
}

// builder tracks the mutable lowering state for a single entry
// function: the module under construction, the current block, the
// per-function label counter, and the live symbol-to-value bindings
// that stand in for phi-less SSA renaming of locals and parameters.
type builder struct {
	module       *ir.Module
	model        *semmodel.Model
	fn           *ir.Function
	block        *ir.Block
	labelCounter int
	bindings     map[int]int // semantic symbol id -> current IR value id
}

func (b *builder) resolveEntry(req Request) (*semmodel.EntryPoint, bool) {
	if req.Model == nil || len(req.Model.EntryPoints) == 0 {
		return nil, false
	}
	if req.EntryOverride == "" {
		ep := req.Model.EntryPoints[0]
		return &ep, true
	}
	for i := range req.Model.EntryPoints {
		if strings.EqualFold(req.Model.EntryPoints[i].Name, req.EntryOverride) {
			ep := req.Model.EntryPoints[i]
			return &ep, true
		}
	}
	return nil, false
}

func isResourceSymbolKind(k semmodel.SymbolKind) bool {
	switch k {
	case semmodel.SymbolSampler, semmodel.SymbolTexture, semmodel.SymbolTextureCube,
		semmodel.SymbolGlobalVariable, semmodel.SymbolCBuffer, semmodel.SymbolBuffer:
		return true
	}
	return strings.HasPrefix(string(k), "Texture")
}

func isMemoryBackedSymbolKind(k semmodel.SymbolKind) bool {
	switch k {
	case semmodel.SymbolGlobalVariable, semmodel.SymbolCBuffer, semmodel.SymbolBuffer, semmodel.SymbolStructMember:
		return true
	}
	return false
}

func symbolValueKind(k semmodel.SymbolKind) ir.ValueKind {
	switch k {
	case semmodel.SymbolSampler:
		return ir.KindSampler
	case semmodel.SymbolTexture, semmodel.SymbolTextureCube:
		return ir.KindTexture
	case semmodel.SymbolCBuffer:
		return ir.KindCBuffer
	case semmodel.SymbolBuffer:
		return ir.KindBuffer
	case semmodel.SymbolGlobalVariable:
		return ir.KindGlobalVariable
	case semmodel.SymbolStructMember:
		return ir.KindStructMember
	default:
		return ir.KindResource
	}
}

// lowerResources emits an IrResource and a matching IrValue for every
// resource-shaped semantic symbol.
func (b *builder) lowerResources() {
	for _, sym := range b.model.Symbols {
		if !isResourceSymbolKind(sym.Kind) {
			continue
		}
		b.module.Resources = append(b.module.Resources, &ir.Resource{
			Name: sym.Name,
			Kind: symbolValueKind(sym.Kind),
			Type: sym.Type,
		})
		b.module.Values = append(b.module.Values, &ir.Value{
			ID:   sym.ID,
			Type: sym.Type,
			Kind: symbolValueKind(sym.Kind),
			Name: sym.Name,
		})
		b.bindings[sym.ID] = sym.ID
	}
}

// lowerParameters emits a Parameter value for every symbol whose
// parent is the entry symbol.
func (b *builder) lowerParameters(entrySymbol *semmodel.Symbol) {
	if entrySymbol == nil {
		return
	}
	for _, sym := range b.model.Symbols {
		if sym.Kind != semmodel.SymbolParameter || sym.ParentSymbolID != entrySymbol.ID {
			continue
		}
		b.module.Values = append(b.module.Values, &ir.Value{
			ID:       sym.ID,
			Type:     sym.Type,
			Kind:     ir.KindParameter,
			Name:     sym.Name,
			Semantic: formatSemantic(sym.Semantic),
		})
		b.fn.Params = append(b.fn.Params, sym.ID)
		b.bindings[sym.ID] = sym.ID
	}
}

// formatSemantic normalizes a semantic to its indexed wire form: a bare
// name gets index 0 appended (POSITION -> POSITION0); an
// already-indexed semantic passes through unchanged.
func formatSemantic(s string) string {
	if s == "" {
		return ""
	}
	if last := s[len(s)-1]; last >= '0' && last <= '9' {
		return s
	}
	return s + "0"
}

func (b *builder) newValue(typ string, kind ir.ValueKind) int {
	id := b.module.NextValueID()
	b.module.Values = append(b.module.Values, &ir.Value{ID: id, Type: typ, Kind: kind})
	return id
}

func (b *builder) newConstant(typ, name string) int {
	id := b.module.NextValueID()
	b.module.Values = append(b.module.Values, &ir.Value{ID: id, Type: typ, Kind: ir.KindConstant, Name: name})
	return id
}

func (b *builder) undef(typ string) int {
	return b.newValue(typ, ir.KindUndef)
}

func (b *builder) emit(inst ir.Instruction) {
	if b.terminated() {
		return
	}
	b.block.Instructions = append(b.block.Instructions, inst)
}

func (b *builder) terminated() bool {
	if b.block == nil || len(b.block.Instructions) == 0 {
		return false
	}
	return b.block.Instructions[len(b.block.Instructions)-1].Terminator
}

func (b *builder) newBlock(id string) *ir.Block {
	blk := &ir.Block{ID: id}
	b.fn.Blocks = append(b.fn.Blocks, blk)
	b.block = blk
	return blk
}

func (b *builder) freshLabel(prefix string) string {
	b.labelCounter++
	return fmt.Sprintf("%s%d", prefix, b.labelCounter)
}

func (b *builder) errorf(format string, args ...interface{}) {
	b.module.AddDiagnostic(ir.Errorf(ir.StageLower, format, args...))
}

func (b *builder) typeOf(nodeID int) string {
	return b.model.TypeOf(nodeID)
}

// finalize synthesizes a Return in the current block if it never
// terminated.
func (b *builder) finalize() {
	if b.terminated() {
		return
	}
	var operand int
	if len(b.fn.Params) > 0 {
		operand = b.fn.Params[0]
	} else {
		retType := b.fn.ReturnType
		if retType == "" || retType == "void" {
			b.emit(ir.Instruction{Op: ir.OpReturn, Terminator: true})
			return
		}
		operand = b.undef(retType)
	}
	b.emit(ir.Instruction{Op: ir.OpReturn, Operands: []int{operand}, Terminator: true})
}
