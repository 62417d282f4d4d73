package ir

// ArrayType represents a fixed-length array [Elem; Len].
type ArrayType struct {
	Elem TypeExpr

	// Len is the length expression. Only literals are renderable.
	Len Expr
}

// Kind returns KindArray.
func (*ArrayType) Kind() TypeKind { return KindArray }
func (*ArrayType) typeExpr()      {}

// Array returns an ArrayType with an integer literal length.
func Array(elem TypeExpr, length string) *ArrayType {
	return &ArrayType{Elem: elem, Len: &LitExpr{Lit: Literal{Kind: LitInt, Value: length}}}
}

// ReferenceType represents &'lifetime mut Elem.
type ReferenceType struct {
	// Lifetime is the bare lifetime name ("a"), empty when elided.
	Lifetime string
	Mutable  bool
	Elem     TypeExpr
}

// Kind returns KindReference.
func (*ReferenceType) Kind() TypeKind { return KindReference }
func (*ReferenceType) typeExpr()      {}

// Ref returns a shared ReferenceType with an elided lifetime.
func Ref(elem TypeExpr) *ReferenceType {
	return &ReferenceType{Elem: elem}
}

// SliceType represents [Elem].
type SliceType struct {
	Elem TypeExpr
}

// Kind returns KindSlice.
func (*SliceType) Kind() TypeKind { return KindSlice }
func (*SliceType) typeExpr()      {}

// Slice returns a SliceType.
func Slice(elem TypeExpr) *SliceType {
	return &SliceType{Elem: elem}
}

// TupleType represents (A, B, ...). An empty tuple is the unit type.
type TupleType struct {
	Elems []TypeExpr
}

// Kind returns KindTuple.
func (*TupleType) Kind() TypeKind { return KindTuple }
func (*TupleType) typeExpr()      {}

// Tuple returns a TupleType.
func Tuple(elems ...TypeExpr) *TupleType {
	return &TupleType{Elems: elems}
}

// PathType represents a possibly generic path such as std::vec::Vec<T>.
type PathType struct {
	// LeadingColon is set for absolute paths (::std::vec::Vec).
	LeadingColon bool

	// QualifiedSelf is set for <T as Trait>::Assoc paths, which are not
	// renderable.
	QualifiedSelf bool

	Segments []PathSegment
}

// Kind returns KindPath.
func (*PathType) Kind() TypeKind { return KindPath }
func (*PathType) typeExpr()      {}

// PathSegment is one identifier of a path with its generic arguments.
type PathSegment struct {
	Ident string
	Args  []GenericArg

	// Parenthesized is set for Fn(A) -> B style arguments, which are not
	// renderable.
	Parenthesized bool
}

// Path returns a PathType from plain segment identifiers, e.g.
// Path("std", "vec", "Vec").
func Path(idents ...string) *PathType {
	segs := make([]PathSegment, len(idents))
	for i, id := range idents {
		segs[i] = PathSegment{Ident: id}
	}
	return &PathType{Segments: segs}
}

// Named returns a single-segment path with generic arguments, e.g.
// Named("List", TypeArg{Type: Named("T")}).
func Named(ident string, args ...GenericArg) *PathType {
	return &PathType{Segments: []PathSegment{{Ident: ident, Args: args}}}
}

// UnsupportedType stands for a type expression outside the renderable
// grammar. It exists so descriptors can faithfully carry what the host
// declared and generation can fail with the shape's name.
type UnsupportedType struct {
	Shape TypeKind

	// Text is the host's rendering of the type, for diagnostics only.
	Text string
}

// Kind returns the unsupported shape.
func (t *UnsupportedType) Kind() TypeKind { return t.Shape }
func (*UnsupportedType) typeExpr()        {}

// Unsupported returns an UnsupportedType of the given shape.
func Unsupported(shape TypeKind, text string) *UnsupportedType {
	return &UnsupportedType{Shape: shape, Text: text}
}
