package irtext

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"openfxc-ir/internal/ir"
)

// Print renders m in the textual IR format this package's grammar
// parses, so that ParseString(Print(m)) round-trips to an equal module.
func Print(w io.Writer, m *ir.Module) {
	fmt.Fprintf(w, "module format_version = %d\n", m.FormatVersion)
	fmt.Fprintf(w, "profile = %s\n", quote(m.Profile))
	if m.EntryPoint != nil {
		fmt.Fprintf(w, "entry = %s %s\n", quote(m.EntryPoint.Function), quote(string(m.EntryPoint.Stage)))
	}
	for _, v := range m.Values {
		fmt.Fprintf(w, "value %d %s %s %s %s\n", v.ID, quote(v.Type), string(v.Kind), quote(v.Name), quote(v.Semantic))
	}
	for _, r := range m.Resources {
		fmt.Fprintf(w, "resource %s %s %s writable = %t\n", quote(r.Name), string(r.Kind), quote(r.Type), r.Writable)
	}
	for _, fn := range m.Functions {
		printFunction(w, fn)
	}
	for _, t := range m.Techniques {
		printTechnique(w, t)
	}
	for _, d := range m.Diagnostics {
		fmt.Fprintf(w, "diagnostic %s %s %s\n", string(d.Severity), string(d.Stage), quote(d.Message))
	}
}

func printFunction(w io.Writer, fn *ir.Function) {
	fmt.Fprintf(w, "function %s %s params = [%s]\n", quote(fn.Name), quote(fn.ReturnType), intList(fn.Params))
	for _, b := range fn.Blocks {
		printBlock(w, b)
	}
	fmt.Fprintln(w, "endfunction")
}

func printBlock(w io.Writer, b *ir.Block) {
	fmt.Fprintf(w, "block %s\n", quote(b.ID))
	for _, inst := range b.Instructions {
		printInstruction(w, inst)
	}
	fmt.Fprintln(w, "endblock")
}

func printInstruction(w io.Writer, inst ir.Instruction) {
	result := -1
	if inst.Result != nil {
		result = *inst.Result
	}
	term := 0
	if inst.Terminator {
		term = 1
	}
	fmt.Fprintf(w, "insn %s result = %d type = %s tag = %s term = %d operands = [%s]\n",
		string(inst.Op), result, quote(inst.Type), quote(inst.Tag), term, intList(inst.Operands))
}

func printTechnique(w io.Writer, t *ir.Technique) {
	fmt.Fprintf(w, "technique %s\n", quote(t.Name))
	for _, p := range t.Passes {
		fmt.Fprintf(w, "pass %s\n", quote(p.Name))
		for _, bnd := range p.Bindings {
			fmt.Fprintf(w, "binding %s %s %s\n", string(bnd.Stage), quote(bnd.Profile), quote(bnd.Entry))
		}
		for _, st := range p.States {
			fmt.Fprintf(w, "state %s %s\n", quote(st.Name), quote(st.Value))
		}
		fmt.Fprintln(w, "endpass")
	}
	fmt.Fprintln(w, "endtechnique")
}

func intList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
