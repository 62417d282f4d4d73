package ir

// TypeKind identifies the shape of a type expression.
type TypeKind int

const (
	// Renderable shapes.
	KindArray     TypeKind = iota // Fixed-length array ([T; N])
	KindReference                 // Shared or mutable reference (&'a mut T)
	KindSlice                     // Slice ([T])
	KindTuple                     // Tuple ((A, B, ...)), including the unit tuple
	KindPath                      // Path with optional generic arguments (std::vec::Vec<T>)

	// Shapes outside the supported grammar. They can be described so that
	// generation fails with a diagnostic naming them.
	KindBareFn      // fn(A) -> B
	KindGroup       // Invisible group produced by macro expansion
	KindImplTrait   // impl Trait
	KindInfer       // _
	KindMacro       // m!(...)
	KindNever       // !
	KindParen       // (T)
	KindPtr         // *const T / *mut T
	KindTraitObject // dyn Trait
	KindVerbatim    // Tokens the host parser could not classify
)

var typeKindNames = map[TypeKind]string{
	KindArray:       "Array",
	KindReference:   "Reference",
	KindSlice:       "Slice",
	KindTuple:       "Tuple",
	KindPath:        "Path",
	KindBareFn:      "BareFn",
	KindGroup:       "Group",
	KindImplTrait:   "ImplTrait",
	KindInfer:       "Infer",
	KindMacro:       "Macro",
	KindNever:       "Never",
	KindParen:       "Paren",
	KindPtr:         "Ptr",
	KindTraitObject: "TraitObject",
	KindVerbatim:    "Verbatim",
}

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	if s, ok := typeKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Supported reports whether k is part of the renderable grammar.
func (k TypeKind) Supported() bool {
	return k <= KindPath
}

// ParseTypeKind returns the kind named s (as produced by String).
func ParseTypeKind(s string) (TypeKind, bool) {
	for k, name := range typeKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// TypeExpr is the base interface for all type expressions.
type TypeExpr interface {
	// Kind returns the shape for type switching and diagnostics.
	Kind() TypeKind

	// Ensure only types in this package can implement TypeExpr.
	typeExpr()
}
