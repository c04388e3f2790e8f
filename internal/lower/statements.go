package lower

import (
	"openfxc-ir/internal/ir"
	"openfxc-ir/internal/semmodel"
)

// lowerBlockNode lowers an ordered statement list (function body,
// then/else bodies, loop bodies). Once a statement terminates the
// current block, remaining statements in the list are ignored.
func (b *builder) lowerBlockNode(node *semmodel.Node) {
	for _, child := range node.ChildrenWithRole("stmt") {
		if b.terminated() {
			return
		}
		stmt := b.model.Node(child.NodeID)
		if stmt == nil {
			continue
		}
		b.lowerStatement(stmt)
	}
}

func (b *builder) lowerStatement(node *semmodel.Node) {
	switch node.Kind {
	case "Block", "StatementList":
		b.lowerBlockNode(node)
	case "ReturnStatement":
		b.lowerReturn(node)
	case "IfStatement":
		b.lowerIf(node)
	case "WhileStatement":
		b.lowerWhile(node)
	case "DoWhileStatement":
		b.lowerDoWhile(node)
	case "ForStatement":
		b.lowerFor(node)
	case "ExpressionStatement":
		if expr := node.Child("expr"); expr != nil {
			if exprNode := b.model.Node(expr.NodeID); exprNode != nil {
				b.lowerExpression(exprNode)
			}
		}
	case "VariableDeclarationStatement":
		b.lowerVariableDeclaration(node)
	case "DiscardStatement":
		// Not a terminator: execution past a discard is still modeled,
		// but the tag marks it as a side-effect barrier for the passes.
		b.emit(ir.Instruction{Op: ir.OpCall, Tag: "discard"})
	default:
		b.errorf("unsupported statement kind %q", node.Kind)
	}
}

func (b *builder) lowerReturn(node *semmodel.Node) {
	var operand int
	if child := node.Child("value"); child != nil {
		if valNode := b.model.Node(child.NodeID); valNode != nil {
			id, ok := b.lowerExpression(valNode)
			if ok {
				operand = id
			} else {
				operand = b.undef(b.fn.ReturnType)
			}
		}
	} else {
		retType := b.fn.ReturnType
		if retType == "" || retType == "void" {
			b.emit(ir.Instruction{Op: ir.OpReturn, Terminator: true})
			return
		}
		if len(b.fn.Params) > 0 {
			operand = b.fn.Params[0]
		} else {
			operand = b.undef(retType)
		}
	}
	b.emit(ir.Instruction{Op: ir.OpReturn, Operands: []int{operand}, Terminator: true})
}

func (b *builder) lowerVariableDeclaration(node *semmodel.Node) {
	child := node.Child("init")
	if child == nil {
		return
	}
	initNode := b.model.Node(child.NodeID)
	if initNode == nil {
		return
	}
	id, ok := b.lowerExpression(initNode)
	if !ok || node.ReferencedSymbolID == 0 {
		return
	}
	b.bindings[node.ReferencedSymbolID] = id
}

// lowerIf implements the then/else/merge block pattern. Both arms
// branch to a shared merge block when they do not terminate themselves.
func (b *builder) lowerIf(node *semmodel.Node) {
	condID := b.lowerCondition(node, "condition")

	thenLabel := b.freshLabel("then")
	elseLabel := b.freshLabel("else")
	mergeLabel := b.freshLabel("merge")

	b.emit(ir.Instruction{
		Op:         ir.OpBranchCond,
		Operands:   []int{condID},
		Tag:        ir.BranchCondTag(thenLabel, elseLabel),
		Terminator: true,
	})

	b.newBlock(thenLabel)
	if thenChild := node.Child("then"); thenChild != nil {
		if thenNode := b.model.Node(thenChild.NodeID); thenNode != nil {
			b.lowerStatement(thenNode)
		}
	}
	if !b.terminated() {
		b.emit(ir.Instruction{Op: ir.OpBranch, Tag: mergeLabel, Terminator: true})
	}

	b.newBlock(elseLabel)
	if elseChild := node.Child("else"); elseChild != nil {
		if elseNode := b.model.Node(elseChild.NodeID); elseNode != nil {
			b.lowerStatement(elseNode)
		}
	}
	if !b.terminated() {
		b.emit(ir.Instruction{Op: ir.OpBranch, Tag: mergeLabel, Terminator: true})
	}

	b.newBlock(mergeLabel)
}

// lowerCondition lowers the condition expression under role, falling
// back to an Undef bool so the enclosing BranchCond still references a
// known value after a lowering error.
func (b *builder) lowerCondition(node *semmodel.Node, role string) int {
	child := node.Child(role)
	if child == nil {
		b.errorf("%s at node %d has no condition", node.Kind, node.ID)
		return b.undef("bool")
	}
	condNode := b.model.Node(child.NodeID)
	if condNode == nil {
		return b.undef("bool")
	}
	id, ok := b.lowerExpression(condNode)
	if !ok {
		return b.undef("bool")
	}
	return id
}

func (b *builder) lowerWhile(node *semmodel.Node) {
	condLabel := b.freshLabel("while.cond")
	bodyLabel := b.freshLabel("while.body")
	exitLabel := b.freshLabel("while.exit")

	b.emit(ir.Instruction{Op: ir.OpBranch, Tag: condLabel, Terminator: true})

	b.newBlock(condLabel)
	condID := b.lowerCondition(node, "condition")
	b.emit(ir.Instruction{
		Op: ir.OpBranchCond, Operands: []int{condID},
		Tag: ir.BranchCondTag(bodyLabel, exitLabel), Terminator: true,
	})

	b.newBlock(bodyLabel)
	if bodyChild := node.Child("body"); bodyChild != nil {
		if bodyNode := b.model.Node(bodyChild.NodeID); bodyNode != nil {
			b.lowerStatement(bodyNode)
		}
	}
	if !b.terminated() {
		b.emit(ir.Instruction{Op: ir.OpBranch, Tag: condLabel, Terminator: true})
	}

	b.newBlock(exitLabel)
}

func (b *builder) lowerDoWhile(node *semmodel.Node) {
	bodyLabel := b.freshLabel("do.body")
	condLabel := b.freshLabel("do.cond")
	exitLabel := b.freshLabel("do.exit")

	b.emit(ir.Instruction{Op: ir.OpBranch, Tag: bodyLabel, Terminator: true})

	b.newBlock(bodyLabel)
	if bodyChild := node.Child("body"); bodyChild != nil {
		if bodyNode := b.model.Node(bodyChild.NodeID); bodyNode != nil {
			b.lowerStatement(bodyNode)
		}
	}
	if !b.terminated() {
		b.emit(ir.Instruction{Op: ir.OpBranch, Tag: condLabel, Terminator: true})
	}

	b.newBlock(condLabel)
	condID := b.lowerCondition(node, "condition")
	b.emit(ir.Instruction{
		Op: ir.OpBranchCond, Operands: []int{condID},
		Tag: ir.BranchCondTag(bodyLabel, exitLabel), Terminator: true,
	})

	b.newBlock(exitLabel)
}

func (b *builder) lowerFor(node *semmodel.Node) {
	if initChild := node.Child("init"); initChild != nil {
		if initNode := b.model.Node(initChild.NodeID); initNode != nil {
			b.lowerStatement(initNode)
		}
	}

	condLabel := b.freshLabel("for.cond")
	bodyLabel := b.freshLabel("for.body")
	incrLabel := b.freshLabel("for.incr")
	exitLabel := b.freshLabel("for.exit")

	b.emit(ir.Instruction{Op: ir.OpBranch, Tag: condLabel, Terminator: true})

	b.newBlock(condLabel)
	condID := b.lowerCondition(node, "condition")
	b.emit(ir.Instruction{
		Op: ir.OpBranchCond, Operands: []int{condID},
		Tag: ir.BranchCondTag(bodyLabel, exitLabel), Terminator: true,
	})

	b.newBlock(bodyLabel)
	if bodyChild := node.Child("body"); bodyChild != nil {
		if bodyNode := b.model.Node(bodyChild.NodeID); bodyNode != nil {
			b.lowerStatement(bodyNode)
		}
	}
	if !b.terminated() {
		b.emit(ir.Instruction{Op: ir.OpBranch, Tag: incrLabel, Terminator: true})
	}

	b.newBlock(incrLabel)
	if incrChild := node.Child("increment"); incrChild != nil {
		if incrNode := b.model.Node(incrChild.NodeID); incrNode != nil {
			b.lowerStatement(incrNode)
		}
	}
	if !b.terminated() {
		b.emit(ir.Instruction{Op: ir.OpBranch, Tag: condLabel, Terminator: true})
	}

	b.newBlock(exitLabel)
}
