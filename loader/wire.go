package loader

// The wire model is shared by every descriptor format. Nodes carry a "kind"
// discriminator; msgpack reuses the json tags.

// File is the top-level descriptor document.
type File struct {
	Declarations []Declaration `json:"declarations,omitempty" yaml:"declarations,omitempty"`
	IndexTypes   []IndexType   `json:"index_types,omitempty" yaml:"index_types,omitempty"`
}

// Declaration is one ADT with the derivations requested for it.
type Declaration struct {
	Name string `json:"name" yaml:"name"`

	// Kind is "enum" (the default), "struct" or "union".
	Kind     string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Generics []Generic   `json:"generics,omitempty" yaml:"generics,omitempty"`
	Where    []Predicate `json:"where,omitempty" yaml:"where,omitempty"`
	Variants []Variant   `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Derives lists derive kind names, e.g. "VariantName".
	Derives []string `json:"derives" yaml:"derives"`

	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Generic is a generic parameter: kind "type", "lifetime" or "const".
type Generic struct {
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`

	// Bounds applies to type parameters.
	Bounds []Bound `json:"bounds,omitempty" yaml:"bounds,omitempty"`

	// Outlives applies to lifetime parameters.
	Outlives []string `json:"outlives,omitempty" yaml:"outlives,omitempty"`

	// Type applies to const parameters.
	Type *Type `json:"type,omitempty" yaml:"type,omitempty"`
}

// Bound is kind "trait" or "lifetime".
type Bound struct {
	Kind string `json:"kind" yaml:"kind"`

	// Path is the trait path for trait bounds.
	Path *Type `json:"path,omitempty" yaml:"path,omitempty"`

	// Lifetime is the lifetime for lifetime bounds.
	Lifetime string `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`

	Maybe       bool     `json:"maybe,omitempty" yaml:"maybe,omitempty"`
	HigherRanks []string `json:"for,omitempty" yaml:"for,omitempty"`
}

// Predicate is a where predicate: kind "type", "lifetime" or "eq".
type Predicate struct {
	Kind        string   `json:"kind" yaml:"kind"`
	Type        *Type    `json:"type,omitempty" yaml:"type,omitempty"`
	Bounds      []Bound  `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	HigherRanks []string `json:"for,omitempty" yaml:"for,omitempty"`
	Lifetime    string   `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`
	Outlives    []string `json:"outlives,omitempty" yaml:"outlives,omitempty"`
	Lhs         *Type    `json:"lhs,omitempty" yaml:"lhs,omitempty"`
	Rhs         *Type    `json:"rhs,omitempty" yaml:"rhs,omitempty"`
}

// Variant is one enum variant. Style is "unit", "named" or "positional";
// when empty it is inferred from the fields.
type Variant struct {
	Name   string  `json:"name" yaml:"name"`
	Style  string  `json:"style,omitempty" yaml:"style,omitempty"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field is a named or positional field.
type Field struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type *Type  `json:"type" yaml:"type"`
}

// Type is a type expression. Kind is "array", "reference", "slice",
// "tuple", "path" or the name of an unsupported shape such as
// "trait_object". A node with only Path set is a path.
type Type struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Path is shorthand for a path of plain segments ("std::vec::Vec").
	// Args, if any, attach to the last segment.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Args []Arg  `json:"args,omitempty" yaml:"args,omitempty"`

	Segments      []Segment `json:"segments,omitempty" yaml:"segments,omitempty"`
	Global        bool      `json:"global,omitempty" yaml:"global,omitempty"`
	QualifiedSelf bool      `json:"qself,omitempty" yaml:"qself,omitempty"`

	Elem     *Type   `json:"elem,omitempty" yaml:"elem,omitempty"`
	Len      *Expr   `json:"len,omitempty" yaml:"len,omitempty"`
	Lifetime string  `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`
	Mut      bool    `json:"mut,omitempty" yaml:"mut,omitempty"`
	Elems    []*Type `json:"elems,omitempty" yaml:"elems,omitempty"`

	// Text is the source rendering of an unsupported shape.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Segment is one path segment.
type Segment struct {
	Ident         string `json:"ident" yaml:"ident"`
	Args          []Arg  `json:"args,omitempty" yaml:"args,omitempty"`
	Parenthesized bool   `json:"parenthesized,omitempty" yaml:"parenthesized,omitempty"`
}

// Arg is a generic argument: kind "lifetime", "type", "binding",
// "constraint" or "const".
type Arg struct {
	Kind     string  `json:"kind" yaml:"kind"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Lifetime string  `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`
	Type     *Type   `json:"type,omitempty" yaml:"type,omitempty"`
	Bounds   []Bound `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Value    *Expr   `json:"value,omitempty" yaml:"value,omitempty"`
}

// Expr is a const expression. Kind is a literal kind ("int", "str",
// "char", "byte", "float", "bool", "byte_str", "verbatim") or any other
// expression form name, which is carried but never renderable.
type Expr struct {
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// IndexType is one index-type invocation.
type IndexType struct {
	Invocation string `json:"invocation" yaml:"invocation"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
}
