// SPDX-License-Identifier: Apache-2.0

// Command openfxc-ir is the thin driver over the lowering and
// optimization pipelines: it reads a document from a file or stdin,
// runs one pipeline, and writes the resulting IR module to stdout in
// the textual IR format. Diagnostics go to stderr.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"openfxc-ir/internal/diag"
	"openfxc-ir/internal/irtext"
	"openfxc-ir/internal/pipeline"
	"openfxc-ir/internal/semmodel"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "lower":
		err = runLower(os.Args[2:])
	case "optimize":
		err = runOptimize(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		color.Red("error: %s", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: openfxc-ir lower [--profile name] [--entry name] [--input path]")
	fmt.Fprintln(os.Stderr, "       openfxc-ir optimize [--passes csv] [--profile name] [--input path]")
}

func runLower(args []string) error {
	fs := flag.NewFlagSet("lower", flag.ContinueOnError)
	profile := fs.String("profile", "", "profile override")
	entry := fs.String("entry", "", "entry point name override")
	input := fs.String("input", "", "input path, defaults to stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*input)
	if err != nil {
		return err
	}
	model, err := semmodel.Decode(data)
	if err != nil {
		return err
	}

	module := pipeline.Lower(model, *profile, *entry)
	irtext.Print(os.Stdout, module)
	diag.NewReporter(os.Stderr).Report(module.Diagnostics)
	return nil
}

func runOptimize(args []string) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	passes := fs.String("passes", "", "comma-separated pass list, defaults to the standard order")
	profile := fs.String("profile", "", "profile override")
	input := fs.String("input", "", "input path, defaults to stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := readInput(*input)
	if err != nil {
		return err
	}
	doc, err := irtext.ParseString(displayName(*input), string(data))
	if err != nil {
		return err
	}
	module := irtext.ToModule(doc)

	out := pipeline.Optimize(module, *passes, *profile)
	irtext.Print(os.Stdout, out)
	diag.NewReporter(os.Stderr).Report(out.Diagnostics)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func displayName(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
