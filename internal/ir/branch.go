package ir

import (
	"fmt"
	"strings"
)

// BranchTag formats the single-target tag used by Branch terminators.
func BranchTag(target string) string {
	return target
}

// BranchCondTag formats the "then:<b>;else:<b>" tag used by BranchCond
// terminators. elseTarget may be empty, in which case only the then
// clause is emitted; the validator rejects such a one-target tag. The
// lowering of an if statement always passes an else label, creating an
// empty else block that falls through to the merge block when the
// statement has no else branch.
func BranchCondTag(thenTarget, elseTarget string) string {
	if elseTarget == "" {
		return fmt.Sprintf("then:%s", thenTarget)
	}
	return fmt.Sprintf("then:%s;else:%s", thenTarget, elseTarget)
}

// ParseBranchCondTag decodes a BranchCond tag into its then/else block ids.
// ok is false if the tag is not well-formed.
func ParseBranchCondTag(tag string) (then, els string, ok bool) {
	parts := strings.Split(tag, ";")
	for _, p := range parts {
		if v, found := strings.CutPrefix(p, "then:"); found {
			then = v
		} else if v, found := strings.CutPrefix(p, "else:"); found {
			els = v
		}
	}
	return then, els, then != ""
}

// SwizzleLane maps a swizzle character to its component index.
func SwizzleLane(c byte) (int, bool) {
	switch c {
	case 'x', 'r', 'u':
		return 0, true
	case 'y', 'g', 'v':
		return 1, true
	case 'z', 'b':
		return 2, true
	case 'w', 'a':
		return 3, true
	}
	return 0, false
}
