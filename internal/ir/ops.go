package ir

import "strings"

// IntrinsicMap maps lower-case callee names to the abstract op they lower
// to. Lowering consults this before falling back to a plain Call.
var IntrinsicMap = map[string]Op{
	"mul":        OpMul,
	"dot":        OpDot,
	"normalize":  OpNormalize,
	"saturate":   OpSaturate,
	"sin":        OpSin,
	"cos":        OpCos,
	"abs":        OpAbs,
	"min":        OpMin,
	"max":        OpMax,
	"clamp":      OpClamp,
	"lerp":       OpLerp,
	"pow":        OpPow,
	"exp":        OpExp,
	"log":        OpLog,
	"step":       OpStep,
	"smoothstep": OpSmoothStep,
	"reflect":    OpReflect,
	"refract":    OpRefract,
	"atan2":      OpAtan2,
	"fma":        OpFma,
	"ddx":        OpDdx,
	"ddy":        OpDdy,
	"length":     OpLength,
	"rsqrt":      OpRsqrt,
	"rcp":        OpRcp,
	"sample":     OpSample,
}

// ResolveIntrinsic maps a callee name (case-insensitive) to an abstract op,
// per the intrinsic table plus the "tex*" sampling prefix rule.
func ResolveIntrinsic(callee string) (Op, bool) {
	lower := strings.ToLower(callee)
	if op, ok := IntrinsicMap[lower]; ok {
		return op, true
	}
	if strings.HasPrefix(lower, "tex") {
		return OpSample, true
	}
	return "", false
}

// BackendTokens is the closed set of back-end vocabulary forbidden
// anywhere in module text.
var BackendTokens = []string{"dxbc", "dxil", "spirv", "d3d", "glsl", "metal"}

// indexFold returns the index of the first case-insensitive substring
// match of substr in s (a plain Index, with no whole-word check).
func indexFold(s, substr string) int {
	if substr == "" {
		return 0
	}
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsBackendToken reports whether s contains any backend token as a
// case-insensitive whole word. A camel-case hump counts as a word
// boundary, so "DxilSample" leaks "dxil" while "metallic" does not leak
// "metal".
func ContainsBackendToken(s string) (string, bool) {
	for _, tok := range BackendTokens {
		if containsWholeWord(s, tok) {
			return tok, true
		}
	}
	return "", false
}

func containsWholeWord(s, tok string) bool {
	lower := strings.ToLower(s)
	start := 0
	for {
		idx := strings.Index(lower[start:], tok)
		if idx < 0 {
			return false
		}
		pos := start + idx
		end := pos + len(tok)
		if isWordBoundary(s, pos-1, pos) && isWordBoundary(s, end-1, end) {
			return true
		}
		start = pos + 1
	}
}

// isWordBoundary reports whether a word break falls between the bytes at
// i and j of s: either side is the string edge or a non-word byte, or
// the case flips from lower to upper (a camel-case hump).
func isWordBoundary(s string, i, j int) bool {
	if i < 0 || j >= len(s) {
		return true
	}
	if !isWordByte(s[i]) || !isWordByte(s[j]) {
		return true
	}
	return isLowerByte(s[i]) && isUpperByte(s[j])
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '_'
}

func isLowerByte(b byte) bool { return b >= 'a' && b <= 'z' }

func isUpperByte(b byte) bool { return b >= 'A' && b <= 'Z' }
