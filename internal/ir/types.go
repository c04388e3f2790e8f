package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Scalar is one of the closed set of scalar element kinds.
type Scalar string

const (
	ScalarFloat  Scalar = "float"
	ScalarHalf   Scalar = "half"
	ScalarDouble Scalar = "double"
	ScalarInt    Scalar = "int"
	ScalarUint   Scalar = "uint"
	ScalarBool   Scalar = "bool"
)

func isScalarName(name string) bool {
	switch Scalar(name) {
	case ScalarFloat, ScalarHalf, ScalarDouble, ScalarInt, ScalarUint, ScalarBool:
		return true
	}
	return false
}

// TypeKind classifies a parsed type descriptor.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeScalar
	TypeVector
	TypeMatrix
	TypeResource
	TypeNamed
)

// ParsedType is a decoded view of a type string from the closed type
// grammar: scalar, <scalar><n> vector, <scalar><r>x<c> matrix, a resource
// type such as Texture2D<..>, or a named struct/resource kind.
type ParsedType struct {
	Kind    TypeKind
	Scalar  Scalar
	Rows    int // vector/matrix component count, or matrix row count
	Cols    int // matrix column count (0 for non-matrix)
	Raw     string
	Element string // inner type for resource generics, e.g. Texture2D<float4>
}

// ParseType decodes a type string per the closed type grammar.
// Unrecognized strings are returned as TypeUnknown with Raw preserved so
// callers can still round-trip them.
func ParseType(s string) ParsedType {
	if s == "" {
		return ParsedType{Kind: TypeUnknown, Raw: s}
	}

	if isScalarName(s) {
		return ParsedType{Kind: TypeScalar, Scalar: Scalar(s), Rows: 1, Raw: s}
	}

	if idx := strings.IndexByte(s, '<'); idx >= 0 && strings.HasSuffix(s, ">") {
		return ParsedType{Kind: TypeResource, Raw: s, Element: s[idx+1 : len(s)-1]}
	}
	switch s {
	case "SamplerState", "Buffer", "cbuffer":
		return ParsedType{Kind: TypeResource, Raw: s}
	}

	// vector: <scalar><n>
	for _, sc := range []Scalar{ScalarFloat, ScalarHalf, ScalarDouble, ScalarInt, ScalarUint, ScalarBool} {
		prefix := string(sc)
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		rest := s[len(prefix):]
		if n, ok := parseComponentCount(rest); ok {
			return ParsedType{Kind: TypeVector, Scalar: sc, Rows: n, Raw: s}
		}
		if r, c, ok := parseMatrixDims(rest); ok {
			return ParsedType{Kind: TypeMatrix, Scalar: sc, Rows: r, Cols: c, Raw: s}
		}
	}

	return ParsedType{Kind: TypeNamed, Raw: s}
}

func parseComponentCount(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	switch s {
	case "2":
		return 2, true
	case "3":
		return 3, true
	case "4":
		return 4, true
	}
	return 0, false
}

func parseMatrixDims(s string) (int, int, bool) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	r, err1 := strconv.Atoi(parts[0])
	c, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || r < 2 || r > 4 || c < 2 || c > 4 {
		return 0, 0, false
	}
	return r, c, true
}

// IsNumericScalar reports whether the type carries a numeric scalar base
// usable in arithmetic (everything except bool and resource/named types).
func (p ParsedType) IsNumericScalar() bool {
	switch p.Kind {
	case TypeScalar, TypeVector, TypeMatrix:
		return p.Scalar != ScalarBool && p.Scalar != ""
	}
	return false
}

// ComponentCount returns the number of scalar lanes for scalar/vector types,
// and 0 when the notion does not apply (matrix, resource, named, unknown).
func (p ParsedType) ComponentCount() int {
	switch p.Kind {
	case TypeScalar:
		return 1
	case TypeVector:
		return p.Rows
	}
	return 0
}

// IsResource reports whether the type is an opaque resource/handle type,
// exempting it from Store's scalar-equality rule.
func (p ParsedType) IsResource() bool {
	return p.Kind == TypeResource
}

// WithComponentCount returns the type string for the same scalar base
// narrowed (or widened) to n components, used by Component-DCE.
func WithComponentCount(base Scalar, n int) string {
	if n <= 1 {
		return string(base)
	}
	return fmt.Sprintf("%s%d", base, n)
}

// SameNumericScalar reports whether two types share the same numeric
// scalar base, independent of component count.
func SameNumericScalar(a, b ParsedType) bool {
	return a.IsNumericScalar() && b.IsNumericScalar() && a.Scalar == b.Scalar
}
