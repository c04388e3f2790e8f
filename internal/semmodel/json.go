package semmodel

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// The JSON shape of the semantic-model document is owned by the
// upstream front-end; this decoder only reads the fields Lowering is
// contractually allowed to consume and treats everything else as opaque.

type wireDocument struct {
	Profile     string            `json:"profile"`
	EntryPoints []wireEntryPoint  `json:"entryPoints"`
	Symbols     []wireSymbol      `json:"symbols"`
	Types       map[string]string `json:"types"`
	Syntax      wireSyntax        `json:"syntax"`
	Techniques  []wireTechnique   `json:"techniques"`
}

type wireEntryPoint struct {
	Name     string `json:"name"`
	Stage    string `json:"stage"`
	SymbolID int    `json:"symbolId"`
}

type wireSymbol struct {
	ID             int    `json:"id"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	ParentSymbolID int    `json:"parentSymbolId"`
	DeclNodeID     int    `json:"declNodeId"`
	Semantic       string `json:"semantic"`
}

type wireSyntax struct {
	Nodes []wireNode `json:"nodes"`
}

type wireNodeChild struct {
	Role   string `json:"role"`
	NodeID int    `json:"nodeId"`
}

type wireNode struct {
	ID                 int             `json:"id"`
	Kind               string          `json:"kind"`
	Children           []wireNodeChild `json:"children"`
	Operator           string          `json:"operator"`
	Swizzle            string          `json:"swizzle"`
	CalleeName         string          `json:"calleeName"`
	CalleeKind         string          `json:"calleeKind"`
	ReferencedSymbolID int             `json:"referencedSymbolId"`
	Literal            string          `json:"literal"`
}

type wireTechnique struct {
	Name   string     `json:"name"`
	Passes []wirePass `json:"passes"`
}

type wirePass struct {
	Name     string        `json:"name"`
	Bindings []wireBinding `json:"bindings"`
	States   []wireState   `json:"states"`
}

type wireBinding struct {
	Stage   string `json:"stage"`
	Profile string `json:"profile"`
	Entry   string `json:"entry"`
}

type wireState struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Decode parses the external semantic-model document and returns the
// opaque Model view that Lowering consumes. A malformed document is the
// one failure mode that propagates as an error instead of becoming a
// diagnostic.
func Decode(data []byte) (*Model, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("semantic model: %w", err)
	}

	m := &Model{Profile: doc.Profile}
	for _, ep := range doc.EntryPoints {
		m.EntryPoints = append(m.EntryPoints, EntryPoint{Name: ep.Name, Stage: ep.Stage, SymbolID: ep.SymbolID})
	}
	for _, s := range doc.Symbols {
		m.Symbols = append(m.Symbols, Symbol{
			ID:             s.ID,
			Kind:           SymbolKind(s.Kind),
			Name:           s.Name,
			Type:           s.Type,
			ParentSymbolID: s.ParentSymbolID,
			DeclNodeID:     s.DeclNodeID,
			Semantic:       s.Semantic,
		})
	}
	if len(doc.Types) > 0 {
		m.Types = make(map[int]string, len(doc.Types))
		for k, v := range doc.Types {
			id, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			m.Types[id] = v
		}
	}
	for _, n := range doc.Syntax.Nodes {
		node := Node{
			ID:                 n.ID,
			Kind:               n.Kind,
			Operator:           n.Operator,
			Swizzle:            n.Swizzle,
			CalleeName:         n.CalleeName,
			CalleeKind:         n.CalleeKind,
			ReferencedSymbolID: n.ReferencedSymbolID,
			Literal:            n.Literal,
		}
		for _, c := range n.Children {
			node.Children = append(node.Children, NodeChild{Role: c.Role, NodeID: c.NodeID})
		}
		m.Nodes = append(m.Nodes, node)
	}
	for _, t := range doc.Techniques {
		technique := Technique{Name: t.Name}
		for _, p := range t.Passes {
			pass := TechniquePass{Name: p.Name}
			for _, b := range p.Bindings {
				pass.Bindings = append(pass.Bindings, TechniquePassBinding{Stage: b.Stage, Profile: b.Profile, Entry: b.Entry})
			}
			for _, s := range p.States {
				pass.States = append(pass.States, TechniqueState{Name: s.Name, Value: s.Value})
			}
			technique.Passes = append(technique.Passes, pass)
		}
		m.Techniques = append(m.Techniques, technique)
	}
	return m, nil
}
