package pipeline_test

import (
	"testing"

	"openfxc-ir/internal/ir"
	"openfxc-ir/internal/pipeline"
	"openfxc-ir/internal/semmodel"
)

func TestLowerThenOptimizeIsErrorFree(t *testing.T) {
	model := &semmodel.Model{
		Profile: "ps_2_0",
		EntryPoints: []semmodel.EntryPoint{
			{Name: "main", Stage: "Pixel", SymbolID: 1},
		},
		Symbols: []semmodel.Symbol{
			{ID: 1, Kind: "Function", Name: "main", Type: "float4", DeclNodeID: 100},
			{ID: 2, Kind: semmodel.SymbolParameter, Name: "v1", Type: "float4", ParentSymbolID: 1, Semantic: "POSITION0"},
		},
		Types: map[int]string{110: "float4"},
		Nodes: []semmodel.Node{
			{ID: 100, Kind: "Block", Children: []semmodel.NodeChild{{Role: "stmt", NodeID: 101}}},
			{ID: 101, Kind: "ReturnStatement", Children: []semmodel.NodeChild{{Role: "value", NodeID: 110}}},
			{ID: 110, Kind: "Identifier", ReferencedSymbolID: 2},
		},
	}

	lowered := pipeline.Lower(model, "", "")
	for _, d := range lowered.Diagnostics {
		if d.Severity == ir.SeverityError {
			t.Fatalf("lowering produced an error: %+v", lowered.Diagnostics)
		}
	}

	optimized := pipeline.Optimize(lowered, "", "")
	for _, d := range optimized.Diagnostics {
		if d.Severity == ir.SeverityError {
			t.Fatalf("optimize produced an error: %+v", optimized.Diagnostics)
		}
	}
}

func TestOptimizeAppliesProfileOverrideWithoutMutatingInput(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	fn := &ir.Function{Name: "main", ReturnType: ""}
	fn.Blocks = append(fn.Blocks, &ir.Block{ID: "entry", Instructions: []ir.Instruction{{Op: ir.OpReturn, Terminator: true}}})
	m.Functions = append(m.Functions, fn)

	out := pipeline.Optimize(m, "", "ps_3_0")
	if out.Profile != "ps_3_0" {
		t.Fatalf("expected profile override to apply, got %q", out.Profile)
	}
	if m.Profile != "ps_2_0" {
		t.Fatalf("profile override must not mutate the input module, got %q", m.Profile)
	}
}

func TestDefaultPassesMatchesOptimizePackage(t *testing.T) {
	if len(pipeline.DefaultPasses) != 6 {
		t.Fatalf("expected 6 default passes, got %d: %v", len(pipeline.DefaultPasses), pipeline.DefaultPasses)
	}
}
