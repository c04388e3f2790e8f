package diag_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"openfxc-ir/internal/diag"
	"openfxc-ir/internal/ir"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestReportNoDiagnosticsPrintsOK(t *testing.T) {
	var buf bytes.Buffer
	diag.NewReporter(&buf).Report(nil)
	if !strings.Contains(buf.String(), "ok: no diagnostics") {
		t.Fatalf("expected the ok summary, got %q", buf.String())
	}
}

func TestReportFormatsEachDiagnosticAndSummary(t *testing.T) {
	var buf bytes.Buffer
	diags := []ir.Diagnostic{
		ir.Errorf(ir.StageLower, "no matching entry point %q", "main"),
		ir.Warningf(ir.StageOptimize, "unknown pass %q", "bogus"),
		ir.Info(ir.StageInvariant, "validated"),
	}
	diag.NewReporter(&buf).Report(diags)
	out := buf.String()

	for _, want := range []string{
		"error[lower]:",
		`no matching entry point "main"`,
		"warning[optimize]:",
		`unknown pass "bogus"`,
		"info[invariant]:",
		"validated",
		"1 error(s)",
		"1 warning(s)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestReportAllWarningsOmitsErrorCount(t *testing.T) {
	var buf bytes.Buffer
	diag.NewReporter(&buf).Report([]ir.Diagnostic{ir.Warningf(ir.StageOptimize, "heads up")})
	out := buf.String()
	if strings.Contains(out, "error(s)") {
		t.Fatalf("expected no error count when there are no errors, got:\n%s", out)
	}
	if !strings.Contains(out, "1 warning(s)") {
		t.Fatalf("expected a warning count, got:\n%s", out)
	}
}
