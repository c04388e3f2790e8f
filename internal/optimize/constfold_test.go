package optimize

import (
	"testing"

	"openfxc-ir/internal/ir"
)

func intPtr(i int) *int { return &i }

// v1=2, v2=3, v3=Add(v1,v2); after constfold,algebraic a new canonical
// constant 5 feeds v3 via Assign.
func TestConstantFoldingAndAlgebraicSimplification(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindConstant, Name: "2"},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindConstant, Name: "3"},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "float"}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpReturn, Operands: []int{3}, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	folded := Optimize(m, "constfold,algebraic")

	block := folded.Functions[0].Blocks[0]
	addInst := block.Instructions[0]
	if addInst.Op != ir.OpAssign {
		t.Fatalf("expected the Add to fold into an Assign, got %s", addInst.Op)
	}
	newConst := folded.Value(addInst.Operands[0])
	if newConst == nil || newConst.Kind != ir.KindConstant || newConst.Name != "5" {
		t.Fatalf("expected a new canonical constant 5, got %+v", newConst)
	}
	for _, d := range folded.Diagnostics {
		if d.Severity == ir.SeverityError {
			t.Fatalf("expected no errors, got %+v", folded.Diagnostics)
		}
	}
}

func TestConstantFoldingVector(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float3", Kind: ir.KindConstant, Name: "float3(1,2,3)"},
		&ir.Value{ID: 2, Type: "float3", Kind: ir.KindConstant, Name: "float3(4,5,6)"},
		&ir.Value{ID: 3, Type: "float3", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "float3"}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(3), Type: "float3"},
			{Op: ir.OpReturn, Operands: []int{3}, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	folded := Optimize(m, "constfold")
	inst := folded.Functions[0].Blocks[0].Instructions[0]
	newConst := folded.Value(inst.Operands[0])
	if newConst == nil || newConst.Name != "float3(5,7,9)" {
		t.Fatalf("expected float3(5,7,9), got %+v", newConst)
	}
}

func TestConstantFoldingSkipsDivisionByZero(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindConstant, Name: "1"},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindConstant, Name: "0"},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "float"}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpDiv, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpReturn, Operands: []int{3}, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "constfold")
	inst := out.Functions[0].Blocks[0].Instructions[0]
	if inst.Op != ir.OpDiv {
		t.Fatalf("division by a zero constant must not be folded, got %s", inst.Op)
	}
}

func TestAlgebraicSimplificationIdentities(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindConstant, Name: "0"},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "float", Params: []int{1}}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpAdd, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpReturn, Operands: []int{3}, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "algebraic")
	inst := out.Functions[0].Blocks[0].Instructions[0]
	if inst.Op != ir.OpAssign || inst.Operands[0] != 1 {
		t.Fatalf("Add x,0 should simplify to Assign x, got %+v", inst)
	}
}

func TestAlgebraicSimplificationMulByZero(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values,
		&ir.Value{ID: 1, Type: "float", Kind: ir.KindParameter},
		&ir.Value{ID: 2, Type: "float", Kind: ir.KindConstant, Name: "0"},
		&ir.Value{ID: 3, Type: "float", Kind: ir.KindTemp},
	)
	fn := &ir.Function{Name: "main", ReturnType: "float", Params: []int{1}}
	fn.Blocks = append(fn.Blocks, &ir.Block{
		ID: "entry",
		Instructions: []ir.Instruction{
			{Op: ir.OpMul, Operands: []int{1, 2}, Result: intPtr(3), Type: "float"},
			{Op: ir.OpReturn, Operands: []int{3}, Terminator: true},
		},
	})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "algebraic")
	inst := out.Functions[0].Blocks[0].Instructions[0]
	if inst.Op != ir.OpAssign {
		t.Fatalf("Mul x,0 should simplify to an Assign of a new zero constant, got %+v", inst)
	}
	zero := out.Value(inst.Operands[0])
	if zero == nil || zero.Name != "0" {
		t.Fatalf("expected a fresh zero constant, got %+v", zero)
	}
}
