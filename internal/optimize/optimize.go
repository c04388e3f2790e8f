// Package optimize implements the configurable optimization pipeline:
// constant folding, algebraic simplification, copy propagation, common
// subexpression elimination, dead-code elimination, and component-level
// dead-code elimination. Optimize runs the passes on a deep copy of its
// input, so the caller's module is never mutated; each pass rewrites
// that copy in place and returns it.
package optimize

import (
	"strings"

	"openfxc-ir/internal/ir"
	"openfxc-ir/internal/validate"
)

// DefaultPasses is the pass order used when the caller supplies no
// explicit list.
var DefaultPasses = []string{"constfold", "algebraic", "copyprop", "cse", "dce", "component-dce"}

type passFunc func(*ir.Module) *ir.Module

var passTable = map[string]passFunc{
	"constfold":     runConstantFolding,
	"algebraic":     runAlgebraicSimplification,
	"copyprop":      runCopyPropagation,
	"cse":           runCSE,
	"dce":           runDCE,
	"component-dce": runComponentDCE,
}

// ParsePasses splits a comma-separated, lower-cased pass list. An empty
// or all-whitespace input yields DefaultPasses.
func ParsePasses(csv string) []string {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return append([]string(nil), DefaultPasses...)
	}
	var out []string
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			out = append(out, tok)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultPasses...)
	}
	return out
}

// Optimize runs the named passes (or DefaultPasses when passesCSV is
// empty) over module in order, then runs the invariant validator once
// and appends its diagnostics. Unknown pass names produce an Error
// diagnostic naming the valid set and are skipped; every other pass
// always executes and logs an Info diagnostic.
func Optimize(module *ir.Module, passesCSV string) *ir.Module {
	out := module.Clone()
	for _, name := range ParsePasses(passesCSV) {
		fn, ok := passTable[name]
		if !ok {
			out.AddDiagnostic(ir.Errorf(ir.StageOptimize,
				"unknown pass %q, valid passes are: %s", name, strings.Join(DefaultPasses, ", ")))
			continue
		}
		out = fn(out)
		out.AddDiagnostic(ir.Info(ir.StageOptimize, "ran pass %q", name))
	}
	out.AddDiagnostics(validate.Validate(out))
	return out
}
