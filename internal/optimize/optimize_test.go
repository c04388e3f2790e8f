package optimize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"openfxc-ir/internal/ir"
)

func TestParsePassesDefaultsWhenEmpty(t *testing.T) {
	got := ParsePasses("")
	if diff := cmp.Diff(DefaultPasses, got); diff != "" {
		t.Fatalf("ParsePasses(\"\") mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePassesLowercasesAndTrims(t *testing.T) {
	got := ParsePasses(" CSE, Dce ,constfold")
	want := []string{"cse", "dce", "constfold"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParsePasses mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimizeUnknownPassProducesError(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	fn := &ir.Function{Name: "main", ReturnType: ""}
	fn.Blocks = append(fn.Blocks, &ir.Block{ID: "entry", Instructions: []ir.Instruction{{Op: ir.OpReturn, Terminator: true}}})
	m.Functions = append(m.Functions, fn)

	out := Optimize(m, "not-a-real-pass")
	found := false
	for _, d := range out.Diagnostics {
		if d.Stage == ir.StageOptimize && d.Severity == ir.SeverityError {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UnknownPass error diagnostic, got %+v", out.Diagnostics)
	}
}

func TestOptimizeDoesNotMutateInput(t *testing.T) {
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

	before := m.Functions[0].Blocks[0].Instructions[0].Op
	_ = Optimize(m, "constfold")
	after := m.Functions[0].Blocks[0].Instructions[0].Op
	if before != after {
		t.Fatalf("Optimize must not mutate its input module, was %s now %s", before, after)
	}
}

func TestOptimizeEmptyPassesIsIdempotentOnPlainModule(t *testing.T) {
	m := ir.NewModule("ps_2_0")
	m.Values = append(m.Values, &ir.Value{ID: 1, Type: "float4", Kind: ir.KindParameter})
	fn := &ir.Function{Name: "main", ReturnType: "float4", Params: []int{1}}
	fn.Blocks = append(fn.Blocks, &ir.Block{ID: "entry", Instructions: []ir.Instruction{
		{Op: ir.OpReturn, Operands: []int{1}, Terminator: true},
	}})
	m.Functions = append(m.Functions, fn)

	first := Optimize(m, "")
	second := Optimize(first, "")
	if len(second.Functions[0].Blocks[0].Instructions) != len(first.Functions[0].Blocks[0].Instructions) {
		t.Fatalf("running the default passes again should not change block shape")
	}
	for _, d := range second.Diagnostics {
		if d.Severity == ir.SeverityError {
			t.Fatalf("expected no errors, got %+v", second.Diagnostics)
		}
	}
}
