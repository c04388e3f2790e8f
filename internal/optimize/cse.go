package optimize

import (
	"strconv"
	"strings"

	"github.com/minio/highwayhash"

	"openfxc-ir/internal/ir"
)

// cseKey is a fixed, arbitrary 32-byte key for the HighwayHash used to
// key the within-block redundancy map; CSE never needs cryptographic
// properties, only a fast, well-distributed hash over (op, type, tag,
// operands) tuples.
var cseKey = [32]byte{
	0x4f, 0x70, 0x65, 0x6e, 0x46, 0x58, 0x43, 0x2d,
	0x49, 0x52, 0x2d, 0x43, 0x53, 0x45, 0x2d, 0x6b,
	0x65, 0x79, 0x2d, 0x76, 0x31, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// runCSE eliminates redundant pure computations within each block,
// keyed by (op, type, tag, operand list); a side-effectful instruction
// clears the map since it is a barrier.
func runCSE(m *ir.Module) *ir.Module {
	for _, fn := range m.Functions {
		for _, b := range fn.Blocks {
			cseBlock(b)
		}
	}
	return m
}

func cseBlock(b *ir.Block) {
	seen := make(map[uint64]int) // hash -> prior result value id

	for i, inst := range b.Instructions {
		if inst.IsSideEffectful() {
			seen = make(map[uint64]int)
			continue
		}
		if inst.Terminator || inst.Result == nil || !inst.IsPure() {
			continue
		}
		key := cseKeyFor(inst)
		if prior, ok := seen[key]; ok {
			b.Instructions[i] = ir.Instruction{
				Op:       ir.OpAssign,
				Operands: []int{prior},
				Result:   inst.Result,
				Type:     inst.Type,
			}
			continue
		}
		seen[key] = *inst.Result
	}
}

func cseKeyFor(inst ir.Instruction) uint64 {
	var sb strings.Builder
	sb.WriteString(string(inst.Op))
	sb.WriteByte('|')
	sb.WriteString(inst.Type)
	sb.WriteByte('|')
	sb.WriteString(inst.Tag)
	for _, op := range inst.Operands {
		sb.WriteByte('|')
		sb.WriteString(strconv.Itoa(op))
	}
	return highwayhash.Sum64([]byte(sb.String()), cseKey[:])
}
