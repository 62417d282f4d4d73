package ir

// DataKind is the discriminant of an ADT declaration.
type DataKind int

const (
	DataEnum DataKind = iota
	DataStruct
	DataUnion
)

func (k DataKind) String() string {
	switch k {
	case DataEnum:
		return "enum"
	case DataStruct:
		return "struct"
	case DataUnion:
		return "union"
	default:
		return "unknown"
	}
}

// FieldsStyle describes how a variant declares its fields.
type FieldsStyle int

const (
	FieldsUnit       FieldsStyle = iota // V
	FieldsNamed                         // V { a: A }
	FieldsPositional                    // V(A)
)

func (s FieldsStyle) String() string {
	switch s {
	case FieldsUnit:
		return "unit"
	case FieldsNamed:
		return "named"
	case FieldsPositional:
		return "positional"
	default:
		return "unknown"
	}
}

// AdtDescriptor describes a struct, enum or union declaration.
type AdtDescriptor struct {
	Name     string
	Generics []GenericParam

	// Where is nil when the declaration has no where clause.
	Where *WhereClause

	Data DataKind

	// Variants is only meaningful for enums.
	Variants []*VariantDescriptor

	Doc    string
	Source Source
}

// IsEnum reports whether the declaration is an enum.
func (a *AdtDescriptor) IsEnum() bool {
	return a.Data == DataEnum
}

// VariantDescriptor describes one enum variant.
type VariantDescriptor struct {
	Name   string
	Style  FieldsStyle
	Fields []*FieldDescriptor
}

// Arity returns the variant's field count.
func (v *VariantDescriptor) Arity() int {
	return len(v.Fields)
}

// FieldDescriptor describes one field. Name is empty for positional fields.
type FieldDescriptor struct {
	Name string
	Type TypeExpr
}

// Enum returns an enum descriptor with the given variants.
func Enum(name string, generics []GenericParam, variants ...*VariantDescriptor) *AdtDescriptor {
	return &AdtDescriptor{Name: name, Generics: generics, Data: DataEnum, Variants: variants}
}

// UnitVariant returns a variant without fields.
func UnitVariant(name string) *VariantDescriptor {
	return &VariantDescriptor{Name: name, Style: FieldsUnit}
}

// TupleVariant returns a variant with positional fields.
func TupleVariant(name string, types ...TypeExpr) *VariantDescriptor {
	fields := make([]*FieldDescriptor, len(types))
	for i, t := range types {
		fields[i] = &FieldDescriptor{Type: t}
	}
	return &VariantDescriptor{Name: name, Style: FieldsPositional, Fields: fields}
}

// StructVariant returns a variant with named fields.
func StructVariant(name string, fields ...*FieldDescriptor) *VariantDescriptor {
	return &VariantDescriptor{Name: name, Style: FieldsNamed, Fields: fields}
}

// Field returns a named field.
func Field(name string, t TypeExpr) *FieldDescriptor {
	return &FieldDescriptor{Name: name, Type: t}
}
