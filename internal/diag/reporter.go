// Package diag renders ir.Diagnostic values the way a developer reads
// compiler output: one colored line per diagnostic, labelled with its
// stage and printed in the order given (not regrouped by stage), with a
// final pass/fail summary. There is no source position attached
// to a Diagnostic (the upstream parser and semantic analyzer own that),
// so the report is a flat stream rather than a source-snippet view.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"openfxc-ir/internal/ir"
)

// Reporter writes a sequence of diagnostics to an io.Writer with
// Rust-compiler-flavored coloring: red for errors, yellow for warnings,
// blue for info.
type Reporter struct {
	out io.Writer
}

// NewReporter returns a Reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func levelColor(sev ir.Severity) func(format string, a ...interface{}) string {
	switch sev {
	case ir.SeverityError:
		return color.New(color.FgRed, color.Bold).SprintfFunc()
	case ir.SeverityWarning:
		return color.New(color.FgYellow, color.Bold).SprintfFunc()
	default:
		return color.New(color.FgBlue, color.Bold).SprintfFunc()
	}
}

func levelLabel(sev ir.Severity) string {
	switch sev {
	case ir.SeverityError:
		return "error"
	case ir.SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Report writes every diagnostic, one per line, then a summary line.
func (r *Reporter) Report(diags []ir.Diagnostic) {
	dim := color.New(color.Faint).SprintFunc()
	errCount, warnCount := 0, 0
	for _, d := range diags {
		lc := levelColor(d.Severity)
		fmt.Fprintf(r.out, "%s %s %s\n",
			lc("%s[%s]:", levelLabel(d.Severity), d.Stage),
			dim("-->"),
			d.Message)
		switch d.Severity {
		case ir.SeverityError:
			errCount++
		case ir.SeverityWarning:
			warnCount++
		}
	}
	if len(diags) == 0 {
		fmt.Fprintln(r.out, color.New(color.FgGreen, color.Bold).Sprint("ok: no diagnostics"))
		return
	}
	fmt.Fprintln(r.out, summary(errCount, warnCount))
}

func summary(errCount, warnCount int) string {
	var parts []string
	if errCount > 0 {
		parts = append(parts, color.New(color.FgRed, color.Bold).Sprintf("%d error(s)", errCount))
	}
	if warnCount > 0 {
		parts = append(parts, color.New(color.FgYellow, color.Bold).Sprintf("%d warning(s)", warnCount))
	}
	if len(parts) == 0 {
		return color.New(color.FgGreen, color.Bold).Sprint("ok")
	}
	return strings.Join(parts, ", ")
}
