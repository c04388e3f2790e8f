// Package semmodel describes the external semantic-model document that
// Lowering consumes. The document is produced upstream by a parser and
// semantic analyzer that are out of scope here; this package only
// names the fields Lowering is contractually allowed to read.
package semmodel

// SymbolKind is the closed set of semantic symbol roles Lowering cares
// about. Kinds outside this set still round-trip through Symbol.Kind as
// a plain string; Lowering treats an unrecognized kind as opaque.
type SymbolKind string

const (
	SymbolParameter      SymbolKind = "Parameter"
	SymbolGlobalVariable SymbolKind = "GlobalVariable"
	SymbolCBuffer        SymbolKind = "CBuffer"
	SymbolBuffer         SymbolKind = "Buffer"
	SymbolStructMember   SymbolKind = "StructMember"
	SymbolSampler        SymbolKind = "Sampler"
	SymbolTexture        SymbolKind = "Texture"
	SymbolTextureCube    SymbolKind = "TextureCube"
)

// Symbol is one resolved declaration.
type Symbol struct {
	ID             int
	Kind           SymbolKind
	Name           string
	Type           string
	ParentSymbolID int // 0 when absent
	DeclNodeID     int
	Semantic       string // e.g. "POSITION", may be empty
}

// EntryPoint names a candidate entry function.
type EntryPoint struct {
	Name     string
	Stage    string // empty when unspecified
	SymbolID int
}

// NodeChild is one edge from a syntax node to a child, tagged with the
// role it plays in the parent (e.g. "condition", "then", "else",
// "left", "right", "arg").
type NodeChild struct {
	Role   string
	NodeID int
}

// Node is one entry in the syntax forest. Kind selects the expression
// or statement grammar rule Lowering dispatches on; the remaining
// fields are populated only for the node kinds that use them.
type Node struct {
	ID                 int
	Kind               string
	Children           []NodeChild
	Operator           string
	Swizzle            string
	CalleeName         string
	CalleeKind         string
	ReferencedSymbolID int // 0 when absent
	Literal            string
}

// TechniqueState is a single render-state name/value pair.
type TechniqueState struct {
	Name  string
	Value string
}

// TechniquePass groups shader bindings and state assignments.
type TechniquePass struct {
	Name     string
	Bindings []TechniquePassBinding
	States   []TechniqueState
}

// TechniquePassBinding names one stage's entry symbol within a pass.
type TechniquePassBinding struct {
	Stage   string
	Profile string
	Entry   string
}

// Technique is forwarded into the IR module largely unchanged.
type Technique struct {
	Name   string
	Passes []TechniquePass
}

// Model is the opaque semantic-model document. Lowering reads only the
// fields named in this struct; everything else the upstream analyzer
// may attach is not part of this contract.
type Model struct {
	Profile     string
	EntryPoints []EntryPoint
	Symbols     []Symbol
	Types       map[int]string // nodeId -> type string
	Nodes       []Node
	Techniques  []Technique
}

// Symbol looks up a symbol by id.
func (m *Model) Symbol(id int) *Symbol {
	for i := range m.Symbols {
		if m.Symbols[i].ID == id {
			return &m.Symbols[i]
		}
	}
	return nil
}

// Node looks up a syntax node by id.
func (m *Model) Node(id int) *Node {
	for i := range m.Nodes {
		if m.Nodes[i].ID == id {
			return &m.Nodes[i]
		}
	}
	return nil
}

// TypeOf returns the semantic type bound to a node id, or "unknown"
// when absent, per the Lowering fallback rule.
func (m *Model) TypeOf(nodeID int) string {
	if m.Types == nil {
		return "unknown"
	}
	if t, ok := m.Types[nodeID]; ok && t != "" {
		return t
	}
	return "unknown"
}

// Child returns the first child of node with the given role, or nil.
func (n *Node) Child(role string) *NodeChild {
	for i := range n.Children {
		if n.Children[i].Role == role {
			return &n.Children[i]
		}
	}
	return nil
}

// ChildrenWithRole returns every child of node with the given role, in
// order (used for statement lists and call argument lists).
func (n *Node) ChildrenWithRole(role string) []NodeChild {
	var out []NodeChild
	for _, c := range n.Children {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}
