package irtext

// Document is the grammar root: one module header followed by an
// unordered sequence of top-level items. The textual form is meant for
// round-tripping an ir.Module, not for human authoring, so every field
// that could contain arbitrary text is quoted.
type Document struct {
	FormatVersion int             `"module" "format_version" "=" @Int`
	Profile       string          `"profile" "=" @String`
	EntryPoint    *EntryPointDecl `@@?`
	Items         []*Item         `@@*`
}

// EntryPointDecl names the module's entry function and shader stage.
type EntryPointDecl struct {
	Function string `"entry" "=" @String`
	Stage    string `@String`
}

// Item is a tagged union over the five top-level declaration kinds,
// mirroring the alternation pattern the source grammar uses for its
// own top-level source elements.
type Item struct {
	Value      *ValueDecl      `  @@`
	Resource   *ResourceDecl   `| @@`
	Function   *FunctionDecl   `| @@`
	Technique  *TechniqueDecl  `| @@`
	Diagnostic *DiagnosticDecl `| @@`
}

// ValueDecl serializes one ir.Value.
type ValueDecl struct {
	ID       int    `"value" @Int`
	Type     string `@String`
	Kind     string `@Ident`
	Name     string `@String`
	Semantic string `@String`
}

// ResourceDecl serializes one ir.Resource.
type ResourceDecl struct {
	Name     string `"resource" @String`
	Kind     string `@Ident`
	Type     string `@String`
	Writable string `"writable" "=" @Ident`
}

// FunctionDecl serializes one ir.Function and its blocks.
type FunctionDecl struct {
	Name       string       `"function" @String`
	ReturnType string       `@String`
	Params     []string     `"params" "=" "[" [ @Int { "," @Int } ] "]"`
	Blocks     []*BlockDecl `@@* "endfunction"`
}

// BlockDecl serializes one ir.Block.
type BlockDecl struct {
	ID           string      `"block" @String`
	Instructions []*InsnDecl `@@* "endblock"`
}

// InsnDecl serializes one ir.Instruction. Result is -1 when the
// instruction defines no value; real value ids are always positive.
type InsnDecl struct {
	Op       string   `"insn" @Ident`
	Result   int      `"result" "=" @Int`
	Type     string   `"type" "=" @String`
	Tag      string   `"tag" "=" @String`
	Term     int      `"term" "=" @Int`
	Operands []string `"operands" "=" "[" [ @Int { "," @Int } ] "]"`
}

// TechniqueDecl serializes one ir.Technique.
type TechniqueDecl struct {
	Name   string      `"technique" @String`
	Passes []*PassDecl `@@* "endtechnique"`
}

// PassDecl serializes one ir.Pass.
type PassDecl struct {
	Name     string         `"pass" @String`
	Bindings []*BindingDecl `@@*`
	States   []*StateDecl   `@@* "endpass"`
}

// BindingDecl serializes one ir.ShaderBinding.
type BindingDecl struct {
	Stage   string `"binding" @Ident`
	Profile string `@String`
	Entry   string `@String`
}

// StateDecl serializes one ir.StateAssignment.
type StateDecl struct {
	Name  string `"state" @String`
	Value string `@String`
}

// DiagnosticDecl serializes one ir.Diagnostic.
type DiagnosticDecl struct {
	Severity string `"diagnostic" @Ident`
	Stage    string `@Ident`
	Message  string `@String`
}
