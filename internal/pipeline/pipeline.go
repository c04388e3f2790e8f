// Package pipeline orchestrates the Lowering and Optimization
// pipelines, both of which already conclude with the invariant
// validator. It exists as the single place a driver (the CLI, or a
// test) calls into, so that profile overrides and pass-list parsing
// stay consistent across both entry points.
package pipeline

import (
	"openfxc-ir/internal/ir"
	"openfxc-ir/internal/lower"
	"openfxc-ir/internal/optimize"
	"openfxc-ir/internal/semmodel"
)

// Lower runs the lowering pipeline over model and returns the
// resulting module, including its validator diagnostics.
func Lower(model *semmodel.Model, profileOverride, entryOverride string) *ir.Module {
	return lower.Lower(lower.Request{
		Model:           model,
		ProfileOverride: profileOverride,
		EntryOverride:   entryOverride,
	})
}

// Optimize runs the optimization pipeline over module with the given
// comma-separated pass list (DefaultPasses when empty), applying a
// profile override before any pass runs.
func Optimize(module *ir.Module, passesCSV, profileOverride string) *ir.Module {
	working := module
	if profileOverride != "" {
		working = module.Clone()
		working.Profile = profileOverride
	}
	return optimize.Optimize(working, passesCSV)
}

// DefaultPasses re-exports the optimizer's default pass order so
// callers do not need to import internal/optimize directly.
var DefaultPasses = optimize.DefaultPasses
