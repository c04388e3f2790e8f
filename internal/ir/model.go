// Package ir defines the backend-agnostic, SSA-ish intermediate
// representation produced by Lowering and consumed/produced by
// Optimization. The grammar is closed and modeled as a tagged union
// (Op + operand list + optional result + free-form tag) rather than a
// type hierarchy per operation, so that a single Instruction shape maps
// directly onto the wire format.
package ir

import "fmt"

// Stage identifies which part of the pipeline produced a Diagnostic.
type Stage string

const (
	StageLower     Stage = "lower"
	StageOptimize  Stage = "optimize"
	StageInvariant Stage = "invariant"
)

// Severity classifies a Diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "Info"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// Diagnostic is an append-only record produced by any stage.
type Diagnostic struct {
	Message  string
	Severity Severity
	Stage    Stage
}

func Info(stage Stage, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityInfo, Stage: stage}
}

func Warningf(stage Stage, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityWarning, Stage: stage}
}

func Errorf(stage Stage, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Message: fmt.Sprintf(format, args...), Severity: SeverityError, Stage: stage}
}

// Stage tag for the Entry point's shader stage (closed set).
type ShaderStage string

const (
	StageVertex   ShaderStage = "Vertex"
	StagePixel    ShaderStage = "Pixel"
	StageGeometry ShaderStage = "Geometry"
	StageHull     ShaderStage = "Hull"
	StageDomain   ShaderStage = "Domain"
	StageCompute  ShaderStage = "Compute"
	StageUnknown  ShaderStage = "Unknown"
)

// EntryPoint names the function that the module was lowered for, plus its
// shader stage tag.
type EntryPoint struct {
	Function string
	Stage    ShaderStage
}

// ValueKind is the closed set of roles a Value can play.
type ValueKind string

const (
	KindParameter      ValueKind = "Parameter"
	KindConstant       ValueKind = "Constant"
	KindTemp           ValueKind = "Temp"
	KindUndef          ValueKind = "Undef"
	KindSampler        ValueKind = "Sampler"
	KindTexture        ValueKind = "Texture"
	KindCBuffer        ValueKind = "CBuffer"
	KindBuffer         ValueKind = "Buffer"
	KindGlobalVariable ValueKind = "GlobalVariable"
	KindResource       ValueKind = "Resource"
	KindStructMember   ValueKind = "StructMember"
	KindCBufferMember  ValueKind = "CBufferMember"
)

// Value is an SSA-identifiable datum. Its Type is stable after creation
// except for the narrowing Component-DCE performs on Swizzle results.
type Value struct {
	ID       int
	Type     string
	Kind     ValueKind
	Name     string
	Semantic string
}

// Op is the closed instruction grammar.
type Op string

const (
	OpLoad   Op = "Load"
	OpStore  Op = "Store"
	OpSample Op = "Sample"
	OpIndex  Op = "Index"

	OpSwizzle Op = "Swizzle"
	OpCast    Op = "Cast"
	OpAssign  Op = "Assign"

	OpAdd Op = "Add"
	OpSub Op = "Sub"
	OpMul Op = "Mul"
	OpDiv Op = "Div"
	OpMod Op = "Mod"

	OpEq Op = "Eq"
	OpNe Op = "Ne"
	OpLt Op = "Lt"
	OpLe Op = "Le"
	OpGt Op = "Gt"
	OpGe Op = "Ge"

	OpLogicalAnd Op = "LogicalAnd"
	OpLogicalOr  Op = "LogicalOr"

	OpNegate Op = "Negate"
	OpNot    Op = "Not"
	OpBitNot Op = "BitNot"

	OpCall Op = "Call"

	OpReturn     Op = "Return"
	OpBranch     Op = "Branch"
	OpBranchCond Op = "BranchCond"
	OpNop        Op = "Nop"

	// Intrinsic abstract ops, see IntrinsicMap.
	OpDot        Op = "Dot"
	OpNormalize  Op = "Normalize"
	OpSaturate   Op = "Saturate"
	OpSin        Op = "Sin"
	OpCos        Op = "Cos"
	OpAbs        Op = "Abs"
	OpMin        Op = "Min"
	OpMax        Op = "Max"
	OpClamp      Op = "Clamp"
	OpLerp       Op = "Lerp"
	OpPow        Op = "Pow"
	OpExp        Op = "Exp"
	OpLog        Op = "Log"
	OpStep       Op = "Step"
	OpSmoothStep Op = "SmoothStep"
	OpReflect    Op = "Reflect"
	OpRefract    Op = "Refract"
	OpAtan2      Op = "Atan2"
	OpFma        Op = "Fma"
	OpDdx        Op = "Ddx"
	OpDdy        Op = "Ddy"
	OpLength     Op = "Length"
	OpRsqrt      Op = "Rsqrt"
	OpRcp        Op = "Rcp"
)

// BinaryOps is the closed set of two-operand arithmetic/comparison/logical
// ops that share the same operand/result type rule.
var BinaryOps = map[Op]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true, OpMod: true,
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
	OpLogicalAnd: true, OpLogicalOr: true,
}

// ComparisonOps always produce bool.
var ComparisonOps = map[Op]bool{
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
}

// UnaryOps is the closed set of single-operand ops that preserve type.
var UnaryOps = map[Op]bool{
	OpNegate: true, OpNot: true, OpBitNot: true,
}

// PureOps is the closed purity set used by DCE and CSE.
var PureOps = map[Op]bool{
	OpAdd: true, OpSub: true, OpMul: true, OpDiv: true, OpMod: true,
	OpEq: true, OpNe: true, OpLt: true, OpLe: true, OpGt: true, OpGe: true,
	OpLogicalAnd: true, OpLogicalOr: true,
	OpSwizzle: true, OpCast: true, OpAssign: true, OpIndex: true,
}

// Instruction is the single tagged-union shape for every operation in the
// grammar: an ordered operand list, an optional result, an optional type
// (required when Result is set), a terminator flag, and a free-form Tag
// used for swizzle masks, branch targets and call callee names.
type Instruction struct {
	Op         Op
	Operands   []int // value ids, ordered
	Result     *int  // value id defined here, if any
	Type       string
	Terminator bool
	Tag        string
}

// IsPure reports whether the instruction belongs to the closed purity set
// and its tag does not carry a "discard" side effect marker.
func (i Instruction) IsPure() bool {
	if !PureOps[i.Op] {
		return false
	}
	return !containsFold(i.Tag, "discard")
}

// IsSideEffectful reports whether the instruction is a side-effect barrier:
// any Sample-family op, Store, or any op whose tag contains "discard".
func (i Instruction) IsSideEffectful() bool {
	if i.Op == OpStore {
		return true
	}
	if containsFold(string(i.Op), "sample") {
		return true
	}
	if containsFold(i.Tag, "discard") {
		return true
	}
	return false
}

func containsFold(s, substr string) bool {
	return len(substr) == 0 || indexFold(s, substr) >= 0
}

// Block is a maximal instruction sequence ending in exactly one terminator.
type Block struct {
	ID           string
	Instructions []Instruction
}

// Function has a name, return type, ordered parameter value ids, and a
// non-empty ordered list of Blocks whose first entry is the entry block.
type Function struct {
	Name       string
	ReturnType string
	Params     []int
	Blocks     []*Block
}

// Entry returns the function's entry block (first block), or nil.
func (f *Function) Entry() *Block {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// Block looks up a block by id within the function.
func (f *Function) Block(id string) *Block {
	for _, b := range f.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Resource mirrors a global declaration.
type Resource struct {
	Name     string
	Kind     ValueKind
	Type     string
	Writable bool
}

// ShaderBinding names one stage's entry symbol within a Pass.
type ShaderBinding struct {
	Stage   ShaderStage
	Profile string
	Entry   string
}

// StateAssignment is a name/value pair in a technique Pass.
type StateAssignment struct {
	Name  string
	Value string
}

// Pass groups shader bindings and render-state assignments.
type Pass struct {
	Name     string
	Bindings []ShaderBinding
	States   []StateAssignment
}

// Technique groups ordered Passes.
type Technique struct {
	Name   string
	Passes []Pass
}

// Module is the root of the IR: a module-level collection of functions,
// values, resources, techniques, and an append-only diagnostics list.
type Module struct {
	FormatVersion int
	Profile       string
	EntryPoint    *EntryPoint
	Functions     []*Function
	Values        []*Value
	Resources     []*Resource
	Techniques    []*Technique
	Diagnostics   []Diagnostic
}

// NewModule returns an empty module with FormatVersion set to 1.
func NewModule(profile string) *Module {
	return &Module{FormatVersion: 1, Profile: profile}
}

// Value looks up a value by id.
func (m *Module) Value(id int) *Value {
	for _, v := range m.Values {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Function looks up a function by name.
func (m *Module) Function(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// AddDiagnostic appends a diagnostic; diagnostics are never removed.
func (m *Module) AddDiagnostic(d Diagnostic) {
	m.Diagnostics = append(m.Diagnostics, d)
}

// AddDiagnostics appends a batch of diagnostics in order.
func (m *Module) AddDiagnostics(ds []Diagnostic) {
	m.Diagnostics = append(m.Diagnostics, ds...)
}

// HasErrors reports whether any diagnostic has Error severity.
func (m *Module) HasErrors() bool {
	for _, d := range m.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// NextValueID returns the lowest unused positive value id in the module.
func (m *Module) NextValueID() int {
	used := make(map[int]bool, len(m.Values))
	for _, v := range m.Values {
		used[v.ID] = true
	}
	id := 1
	for used[id] {
		id++
	}
	return id
}

// Clone returns a deep, independent copy of the module so that passes can
// treat inputs as immutable and construct new observables.
func (m *Module) Clone() *Module {
	out := &Module{
		FormatVersion: m.FormatVersion,
		Profile:       m.Profile,
	}
	if m.EntryPoint != nil {
		ep := *m.EntryPoint
		out.EntryPoint = &ep
	}
	out.Values = make([]*Value, len(m.Values))
	for i, v := range m.Values {
		cp := *v
		out.Values[i] = &cp
	}
	out.Resources = make([]*Resource, len(m.Resources))
	for i, r := range m.Resources {
		cp := *r
		out.Resources[i] = &cp
	}
	out.Techniques = make([]*Technique, len(m.Techniques))
	for i, t := range m.Techniques {
		cp := *t
		cp.Passes = append([]Pass(nil), t.Passes...)
		for j := range cp.Passes {
			cp.Passes[j].Bindings = append([]ShaderBinding(nil), t.Passes[j].Bindings...)
			cp.Passes[j].States = append([]StateAssignment(nil), t.Passes[j].States...)
		}
		out.Techniques[i] = &cp
	}
	out.Functions = make([]*Function, len(m.Functions))
	for i, f := range m.Functions {
		cf := &Function{Name: f.Name, ReturnType: f.ReturnType, Params: append([]int(nil), f.Params...)}
		cf.Blocks = make([]*Block, len(f.Blocks))
		for j, b := range f.Blocks {
			cb := &Block{ID: b.ID, Instructions: make([]Instruction, len(b.Instructions))}
			for k, inst := range b.Instructions {
				ci := inst
				ci.Operands = append([]int(nil), inst.Operands...)
				if inst.Result != nil {
					r := *inst.Result
					ci.Result = &r
				}
				cb.Instructions[k] = ci
			}
			cf.Blocks[j] = cb
		}
		out.Functions[i] = cf
	}
	out.Diagnostics = append([]Diagnostic(nil), m.Diagnostics...)
	return out
}
