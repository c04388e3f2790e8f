package optimize

import (
	"testing"

	"openfxc-ir/internal/ir"
)

// The Store anchors its producer so all three instructions survive DCE.
func TestDCEPreservesSideEffects(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "RWTexture2D<float4>", Kind: ir.KindResource},
		&ir.Value{ID: 2, Type: "float4", Kind: ir.KindParameter},
		&ir.Value{ID: 3, Type: "float4", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "", Params: []int{2}}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{2, 2}, Result: intPtr(3), Type: "float4"},
			{Op: ir.OpStore, Operands: []int{1, 3}},
			{Op: ir.OpReturn, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "dce")
	insts := out.Functions[0].Blocks[0].Instructions
	if len(insts) != 3 {
		t.Fatalf("expected all 3 instructions to survive, got %d: %+v", len(insts), insts)
	}
	if insts[0].Op != ir.OpAdd || insts[1].Op != ir.OpStore || insts[2].Op != ir.OpReturn {
		t.Fatalf("unexpected instruction shape after DCE: %+v", insts)
	}
}

func TestDCERemovesUnusedPureInstruction(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "", Params: []int{1}}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 1}, Result: intPtr(2), Type: "float"},
			{Op: ir.OpReturn, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "dce")
	insts := out.Functions[0].Blocks[0].Instructions
	if len(insts) != 1 || insts[0].Op != ir.OpReturn {
		t.Fatalf("expected the unused Add to be removed, got %+v", insts)
	}
}

func TestDCENeverRemovesSample(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "Texture2D<float4>", Kind: ir.KindTexture},
		&ir.Value{ID: 2, Type: "SamplerState", Kind: ir.KindSampler},
		&ir.Value{ID: 3, Type: "float4", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: ""}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpSample, Operands: []int{1, 2}, Result: intPtr(3), Type: "float4"},
			{Op: ir.OpReturn, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "dce")
	insts := out.Functions[0].Blocks[0].Instructions
	if len(insts) != 2 {
		t.Fatalf("Sample must never be removed even though its result is unused, got %+v", insts)
	}
}
