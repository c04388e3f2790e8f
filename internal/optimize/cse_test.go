package optimize

import (
	"testing"

	"openfxc-ir/internal/ir"
)

func TestCSEReplacesRedundantComputation(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
		&ir.Value{ID: 4, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "float", Params: []int{1, 2}}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(4), Type: "float"},
			{Op: ir.OpReturn, Operands: []int{4}, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "cse")
	second := out.Functions[0].Blocks[0].Instructions[1]
	if second.Op != ir.OpAssign || second.Operands[0] != 3 {
		t.Fatalf("expected the second identical Add to become Assign v3, got %+v", second)
	}
}

func TestCSEBarrierClearsOnSideEffect(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
		&ir.Value{ID: 4, Type: "RWTexture2D<float>", Kind: ir.KindResource},
		&ir.Value{ID: 5, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: ""}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpStore, Operands: []int{4, 3}},
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(5), Type: "float"},
			{Op: ir.OpReturn, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "cse")
	third := out.Functions[0].Blocks[0].Instructions[2]
	if third.Op != ir.OpAdd {
		t.Fatalf("a Store barrier must prevent CSE across it, got %+v", third)
	}
}

func TestCSEDoesNotCrossBlocks(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
		&ir.Value{ID: 4, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: ""}
	fn.Blocks = append(fn.Blocks,
		&ir.Block{ID: "a", Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpBranch, Tag: "b", Terminator: true},
		}},
		&ir.Block{ID: "b", Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(4), Type: "float"},
			{Op: ir.OpReturn, Terminator: true},
		}},
	)
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "cse")
	bInst := out.Functions[0].Block("b").Instructions[0]
	if bInst.Op != ir.OpAdd {
		t.Fatalf("CSE must not reuse a computation across block boundaries, got %+v", bInst)
	}
}
