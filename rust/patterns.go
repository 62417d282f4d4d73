package rust

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

// Wildcard is the binding used for anonymous pattern fields.
const Wildcard = "_"

// MatchPattern is the match arm head for one enum variant together with
// what it binds.
type MatchPattern struct {
	// Variant is the variant name.
	Variant string

	// Head is the pattern text, e.g. "List::Cons(x0, x1)".
	Head string

	// Arity is the field count, including anonymous fields.
	Arity int

	// Bindings are the variables introduced by Head, in field order.
	// Empty when the pattern is anonymous.
	Bindings []string

	// FieldTypes are the rendered field types in declaration order.
	FieldTypes []string
}

// BuildPatterns builds one MatchPattern per variant, in declaration order.
//
// If basename is empty every field is bound to the wildcard. Otherwise
// fields are bound to basename followed by the field's zero-based index
// within its variant (x0, x1, ...). Named fields render as field:binding.
func BuildPatterns(adtName string, variants []*ir.VariantDescriptor, basename string) ([]MatchPattern, error) {
	patterns := make([]MatchPattern, 0, len(variants))
	for i, v := range variants {
		if v == nil {
			return nil, diag.Newf(diag.CodeInvalidDescriptor, adtName, "variant %d is missing", i)
		}
		mp, err := buildPattern(adtName, v, basename)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, mp)
	}
	return patterns, nil
}

func buildPattern(adtName string, v *ir.VariantDescriptor, basename string) (MatchPattern, error) {
	if v.Style == ir.FieldsUnit && len(v.Fields) > 0 {
		return MatchPattern{}, diag.Newf(diag.CodeInvalidDescriptor, adtName+"::"+v.Name,
			"unit variant declares %d fields", len(v.Fields))
	}
	mp := MatchPattern{
		Variant: v.Name,
		Arity:   len(v.Fields),
	}
	elems := make([]string, len(v.Fields))
	types := make([]string, len(v.Fields))
	var bindings []string
	for i, f := range v.Fields {
		if f == nil {
			return MatchPattern{}, diag.Newf(diag.CodeInvalidDescriptor, adtName+"::"+v.Name, "field %d is missing", i)
		}
		ty, err := RenderType(f.Type)
		if err != nil {
			return MatchPattern{}, errors.Wrapf(err, "%s::%s field %s", adtName, v.Name, fieldLabel(i, f))
		}
		types[i] = ty

		binding := Wildcard
		if basename != "" {
			binding = basename + strconv.Itoa(i)
			bindings = append(bindings, binding)
		}
		if v.Style == ir.FieldsNamed {
			elems[i] = f.Name + ":" + binding
		} else {
			elems[i] = binding
		}
	}

	var fields string
	switch v.Style {
	case ir.FieldsNamed:
		fields = "{ " + strings.Join(elems, ", ") + " }"
	case ir.FieldsPositional:
		fields = "(" + strings.Join(elems, ", ") + ")"
	}
	mp.Head = adtName + "::" + v.Name + fields
	mp.Bindings = bindings
	mp.FieldTypes = types
	return mp, nil
}

func fieldLabel(i int, f *ir.FieldDescriptor) string {
	if f.Name != "" {
		return f.Name
	}
	return strconv.Itoa(i)
}
