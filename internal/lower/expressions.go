package lower

import (
	"openfxc-ir/internal/ir"
	"openfxc-ir/internal/semmodel"
)

// lowerExpression dispatches on node.Kind. ok is false when the node
// kind, operator, or reference could not be resolved; a lowering Error
// diagnostic has already been recorded in that case. A child node id
// that does not resolve to a node also yields ok false, without a
// diagnostic of its own.
func (b *builder) lowerExpression(node *semmodel.Node) (int, bool) {
	switch node.Kind {
	case "Identifier":
		return b.lowerIdentifier(node)
	case "MemberAccessExpression":
		return b.lowerMemberAccess(node)
	case "LiteralExpression":
		return b.newConstant(b.typeOf(node.ID), node.Literal), true
	case "UnaryExpression":
		return b.lowerUnary(node)
	case "BinaryExpression":
		return b.lowerBinary(node)
	case "CallExpression":
		return b.lowerCall(node)
	case "CastExpression":
		return b.lowerCast(node)
	case "IndexExpression":
		return b.lowerIndex(node)
	default:
		b.errorf("unsupported expression kind %q", node.Kind)
		return 0, false
	}
}

func (b *builder) lowerIdentifier(node *semmodel.Node) (int, bool) {
	if node.ReferencedSymbolID == 0 {
		b.errorf("identifier at node %d has no resolved reference", node.ID)
		return 0, false
	}
	sym := b.model.Symbol(node.ReferencedSymbolID)
	if sym == nil {
		b.errorf("identifier at node %d references unknown symbol %d", node.ID, node.ReferencedSymbolID)
		return 0, false
	}
	if isMemoryBackedSymbolKind(sym.Kind) {
		result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
		b.emit(ir.Instruction{Op: ir.OpLoad, Operands: []int{sym.ID}, Result: &result, Type: b.typeOf(node.ID)})
		return result, true
	}
	if id, ok := b.bindings[sym.ID]; ok {
		return id, true
	}
	return sym.ID, true
}

func (b *builder) lowerMemberAccess(node *semmodel.Node) (int, bool) {
	if node.ReferencedSymbolID != 0 {
		sym := b.model.Symbol(node.ReferencedSymbolID)
		if sym == nil {
			b.errorf("member access at node %d references unknown symbol %d", node.ID, node.ReferencedSymbolID)
			return 0, false
		}
		if isMemoryBackedSymbolKind(sym.Kind) {
			result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
			b.emit(ir.Instruction{Op: ir.OpLoad, Operands: []int{sym.ID}, Result: &result, Type: b.typeOf(node.ID), Tag: node.Swizzle})
			return result, true
		}
		if id, ok := b.bindings[sym.ID]; ok {
			return id, true
		}
		return sym.ID, true
	}

	srcChild := node.Child("source")
	if srcChild == nil {
		b.errorf("member access at node %d has no source and no symbol reference", node.ID)
		return 0, false
	}
	srcNode := b.model.Node(srcChild.NodeID)
	if srcNode == nil {
		return 0, false
	}
	srcID, ok := b.lowerExpression(srcNode)
	if !ok {
		return 0, false
	}
	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: ir.OpSwizzle, Operands: []int{srcID}, Result: &result, Type: b.typeOf(node.ID), Tag: node.Swizzle})
	return result, true
}

func (b *builder) lowerUnary(node *semmodel.Node) (int, bool) {
	child := node.Child("operand")
	if child == nil {
		b.errorf("unary expression at node %d has no operand", node.ID)
		return 0, false
	}
	operandNode := b.model.Node(child.NodeID)
	if operandNode == nil {
		return 0, false
	}
	operandID, ok := b.lowerExpression(operandNode)
	if !ok {
		return 0, false
	}
	var op ir.Op
	switch node.Operator {
	case "+":
		return operandID, true
	case "-":
		op = ir.OpNegate
	case "!":
		op = ir.OpNot
	case "~":
		op = ir.OpBitNot
	default:
		b.errorf("unsupported unary operator %q at node %d", node.Operator, node.ID)
		return 0, false
	}
	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: op, Operands: []int{operandID}, Result: &result, Type: b.typeOf(node.ID)})
	return result, true
}

var binaryOperatorOps = map[string]ir.Op{
	"+": ir.OpAdd, "-": ir.OpSub, "*": ir.OpMul, "/": ir.OpDiv, "%": ir.OpMod,
	"==": ir.OpEq, "!=": ir.OpNe, "<": ir.OpLt, "<=": ir.OpLe, ">": ir.OpGt, ">=": ir.OpGe,
	"&&": ir.OpLogicalAnd, "||": ir.OpLogicalOr,
}

func (b *builder) lowerBinary(node *semmodel.Node) (int, bool) {
	if node.Operator == "=" {
		return b.lowerAssign(node)
	}

	leftChild, rightChild := node.Child("left"), node.Child("right")
	if leftChild == nil || rightChild == nil {
		b.errorf("binary expression at node %d is missing an operand", node.ID)
		return 0, false
	}
	leftNode, rightNode := b.model.Node(leftChild.NodeID), b.model.Node(rightChild.NodeID)
	if leftNode == nil || rightNode == nil {
		return 0, false
	}
	leftID, ok1 := b.lowerExpression(leftNode)
	rightID, ok2 := b.lowerExpression(rightNode)
	if !ok1 || !ok2 {
		return 0, false
	}

	op, ok := binaryOperatorOps[node.Operator]
	if !ok {
		b.errorf("unsupported binary operator %q at node %d", node.Operator, node.ID)
		return 0, false
	}

	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: op, Operands: []int{leftID, rightID}, Result: &result, Type: b.typeOf(node.ID)})
	return result, true
}

// lowerAssign handles the "=" operator: a Store when the left-hand
// side names a memory-backed symbol, otherwise an Assign that rebinds
// the symbol's current SSA value (the phi-less local-variable pattern).
func (b *builder) lowerAssign(node *semmodel.Node) (int, bool) {
	leftChild, rightChild := node.Child("left"), node.Child("right")
	if leftChild == nil || rightChild == nil {
		b.errorf("assignment at node %d is missing an operand", node.ID)
		return 0, false
	}
	leftNode, rightNode := b.model.Node(leftChild.NodeID), b.model.Node(rightChild.NodeID)
	if leftNode == nil || rightNode == nil {
		return 0, false
	}
	rhsID, ok := b.lowerExpression(rightNode)
	if !ok {
		return 0, false
	}

	if leftNode.ReferencedSymbolID != 0 {
		sym := b.model.Symbol(leftNode.ReferencedSymbolID)
		if sym != nil && isMemoryBackedSymbolKind(sym.Kind) {
			operands := []int{sym.ID, rhsID}
			b.emit(ir.Instruction{Op: ir.OpStore, Operands: operands, Tag: leftNode.Swizzle})
			return rhsID, true
		}
		if sym != nil {
			result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
			b.emit(ir.Instruction{Op: ir.OpAssign, Operands: []int{rhsID}, Result: &result, Type: b.typeOf(node.ID)})
			b.bindings[sym.ID] = result
			return result, true
		}
	}

	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: ir.OpAssign, Operands: []int{rhsID}, Result: &result, Type: b.typeOf(node.ID)})
	return result, true
}

func (b *builder) lowerCall(node *semmodel.Node) (int, bool) {
	args := node.ChildrenWithRole("arg")
	operands := make([]int, 0, len(args))
	for _, a := range args {
		argNode := b.model.Node(a.NodeID)
		if argNode == nil {
			continue
		}
		id, ok := b.lowerExpression(argNode)
		if !ok {
			return 0, false
		}
		operands = append(operands, id)
	}

	op, isIntrinsic := ir.ResolveIntrinsic(node.CalleeName)
	if !isIntrinsic {
		op = ir.OpCall
		if node.CalleeKind == "Intrinsic" {
			b.errorf("unsupported intrinsic %q at node %d", node.CalleeName, node.ID)
		}
	}

	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: op, Operands: operands, Result: &result, Type: b.typeOf(node.ID), Tag: node.CalleeName})
	return result, true
}

func (b *builder) lowerCast(node *semmodel.Node) (int, bool) {
	child := node.Child("operand")
	if child == nil {
		b.errorf("cast at node %d has no operand", node.ID)
		return 0, false
	}
	operandNode := b.model.Node(child.NodeID)
	if operandNode == nil {
		return 0, false
	}
	operandID, ok := b.lowerExpression(operandNode)
	if !ok {
		return 0, false
	}
	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: ir.OpCast, Operands: []int{operandID}, Result: &result, Type: b.typeOf(node.ID)})
	return result, true
}

func (b *builder) lowerIndex(node *semmodel.Node) (int, bool) {
	baseChild, indexChild := node.Child("base"), node.Child("index")
	if baseChild == nil || indexChild == nil {
		b.errorf("index expression at node %d is missing base or index", node.ID)
		return 0, false
	}
	baseNode, indexNode := b.model.Node(baseChild.NodeID), b.model.Node(indexChild.NodeID)
	if baseNode == nil || indexNode == nil {
		return 0, false
	}
	baseID, ok1 := b.lowerExpression(baseNode)
	indexID, ok2 := b.lowerExpression(indexNode)
	if !ok1 || !ok2 {
		return 0, false
	}
	result := b.newValue(b.typeOf(node.ID), ir.KindTemp)
	b.emit(ir.Instruction{Op: ir.OpIndex, Operands: []int{baseID, indexID}, Result: &result, Type: b.typeOf(node.ID)})
	return result, true
}
