package loader

import (
	"fmt"
	"strings"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

// converter turns a wire File into an ir.Schema. Errors name the file and
// the path of the offending node.
type converter struct {
	file string
}

func (c *converter) errorf(path, format string, args ...any) error {
	construct := path
	if c.file != "" {
		construct = c.file + ": " + path
	}
	return diag.Newf(diag.CodeInvalidDescriptor, construct, format, args...)
}

// ToSchema converts a decoded File. name labels errors and declaration
// sources; it is usually the file path.
func ToSchema(f *File, name string) (*ir.Schema, error) {
	c := &converter{file: name}
	return c.schema(f)
}

func (c *converter) schema(f *File) (*ir.Schema, error) {
	s := &ir.Schema{}
	for i, d := range f.Declarations {
		decl, err := c.declaration(fmt.Sprintf("declarations[%d]", i), d)
		if err != nil {
			return nil, err
		}
		s.Declarations = append(s.Declarations, decl)
	}
	for i, it := range f.IndexTypes {
		if strings.TrimSpace(it.Invocation) == "" {
			return nil, c.errorf(fmt.Sprintf("index_types[%d]", i), "empty invocation")
		}
		s.IndexTypes = append(s.IndexTypes, ir.IndexType{
			Invocation: it.Invocation,
			Source:     ir.Source{File: c.file, Line: it.Line},
		})
	}
	return s, nil
}

func (c *converter) declaration(path string, d Declaration) (ir.Declaration, error) {
	adt := &ir.AdtDescriptor{
		Name:   d.Name,
		Doc:    d.Doc,
		Source: ir.Source{File: c.file, Line: d.Line},
	}
	if d.Name == "" {
		return ir.Declaration{}, c.errorf(path, "missing name")
	}
	path = path + "(" + d.Name + ")"

	switch strings.ToLower(d.Kind) {
	case "", "enum":
		adt.Data = ir.DataEnum
	case "struct":
		adt.Data = ir.DataStruct
	case "union":
		adt.Data = ir.DataUnion
	default:
		return ir.Declaration{}, c.errorf(path+".kind", "unknown declaration kind %q", d.Kind)
	}

	for i, g := range d.Generics {
		p, err := c.generic(fmt.Sprintf("%s.generics[%d]", path, i), g)
		if err != nil {
			return ir.Declaration{}, err
		}
		adt.Generics = append(adt.Generics, p)
	}

	if d.Where != nil {
		adt.Where = &ir.WhereClause{}
		for i, w := range d.Where {
			p, err := c.predicate(fmt.Sprintf("%s.where[%d]", path, i), w)
			if err != nil {
				return ir.Declaration{}, err
			}
			adt.Where.Predicates = append(adt.Where.Predicates, p)
		}
	}

	for i, v := range d.Variants {
		variant, err := c.variant(fmt.Sprintf("%s.variants[%d]", path, i), v)
		if err != nil {
			return ir.Declaration{}, err
		}
		adt.Variants = append(adt.Variants, variant)
	}

	decl := ir.Declaration{Adt: adt}
	for i, name := range d.Derives {
		k, ok := ir.ParseDeriveKind(name)
		if !ok {
			return ir.Declaration{}, c.errorf(fmt.Sprintf("%s.derives[%d]", path, i), "unknown derive kind %q", name)
		}
		decl.Derives = append(decl.Derives, k)
	}
	return decl, nil
}

func (c *converter) generic(path string, g Generic) (ir.GenericParam, error) {
	if g.Name == "" {
		return nil, c.errorf(path, "missing name")
	}
	switch g.Kind {
	case "type", "":
		bounds, err := c.bounds(path+".bounds", g.Bounds)
		if err != nil {
			return nil, err
		}
		return &ir.TypeParam{Name: g.Name, Bounds: bounds}, nil
	case "lifetime":
		return &ir.LifetimeParam{Name: ir.NormalizeLifetime(g.Name), Bounds: normalizeLifetimes(g.Outlives)}, nil
	case "const":
		var t ir.TypeExpr
		if g.Type != nil {
			var err error
			if t, err = c.typ(path+".type", g.Type); err != nil {
				return nil, err
			}
		}
		return &ir.ConstParam{Name: g.Name, Type: t}, nil
	default:
		return nil, c.errorf(path+".kind", "unknown generic parameter kind %q", g.Kind)
	}
}

func (c *converter) bounds(path string, bs []Bound) ([]ir.Bound, error) {
	var out []ir.Bound
	for i, b := range bs {
		p := fmt.Sprintf("%s[%d]", path, i)
		switch b.Kind {
		case "trait", "":
			if b.Path == nil {
				return nil, c.errorf(p, "trait bound has no path")
			}
			t, err := c.typ(p+".path", b.Path)
			if err != nil {
				return nil, err
			}
			tp, ok := t.(*ir.PathType)
			if !ok {
				return nil, c.errorf(p+".path", "trait bound must be a path, got %s", t.Kind())
			}
			tb := &ir.TraitBound{Path: tp, Lifetimes: normalizeLifetimes(b.HigherRanks)}
			if b.Maybe {
				tb.Modifier = ir.ModifierMaybe
			}
			out = append(out, tb)
		case "lifetime":
			if b.Lifetime == "" {
				return nil, c.errorf(p, "lifetime bound has no lifetime")
			}
			out = append(out, &ir.LifetimeBound{Name: ir.NormalizeLifetime(b.Lifetime)})
		default:
			return nil, c.errorf(p+".kind", "unknown bound kind %q", b.Kind)
		}
	}
	return out, nil
}

func (c *converter) predicate(path string, w Predicate) (ir.WherePredicate, error) {
	switch w.Kind {
	case "type", "":
		if w.Type == nil {
			return nil, c.errorf(path, "type predicate has no type")
		}
		t, err := c.typ(path+".type", w.Type)
		if err != nil {
			return nil, err
		}
		bounds, err := c.bounds(path+".bounds", w.Bounds)
		if err != nil {
			return nil, err
		}
		return &ir.TypePredicate{Bounded: t, Bounds: bounds, Lifetimes: normalizeLifetimes(w.HigherRanks)}, nil
	case "lifetime":
		if w.Lifetime == "" {
			return nil, c.errorf(path, "lifetime predicate has no lifetime")
		}
		return &ir.LifetimePredicate{Lifetime: ir.NormalizeLifetime(w.Lifetime), Bounds: normalizeLifetimes(w.Outlives)}, nil
	case "eq":
		if w.Lhs == nil || w.Rhs == nil {
			return nil, c.errorf(path, "equality predicate needs lhs and rhs")
		}
		lhs, err := c.typ(path+".lhs", w.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := c.typ(path+".rhs", w.Rhs)
		if err != nil {
			return nil, err
		}
		return &ir.EqPredicate{Lhs: lhs, Rhs: rhs}, nil
	default:
		return nil, c.errorf(path+".kind", "unknown predicate kind %q", w.Kind)
	}
}

func (c *converter) variant(path string, v Variant) (*ir.VariantDescriptor, error) {
	if v.Name == "" {
		return nil, c.errorf(path, "missing name")
	}
	path = path + "(" + v.Name + ")"

	out := &ir.VariantDescriptor{Name: v.Name}
	switch v.Style {
	case "":
		out.Style = inferStyle(v.Fields)
	case "unit":
		out.Style = ir.FieldsUnit
	case "named":
		out.Style = ir.FieldsNamed
	case "positional":
		out.Style = ir.FieldsPositional
	default:
		return nil, c.errorf(path+".style", "unknown variant style %q", v.Style)
	}
	if out.Style == ir.FieldsUnit && len(v.Fields) > 0 {
		return nil, c.errorf(path, "unit variant declares fields")
	}

	for i, f := range v.Fields {
		p := fmt.Sprintf("%s.fields[%d]", path, i)
		if out.Style == ir.FieldsNamed && f.Name == "" {
			return nil, c.errorf(p, "field of a named variant has no name")
		}
		if out.Style == ir.FieldsPositional && f.Name != "" {
			return nil, c.errorf(p, "positional field is named %q", f.Name)
		}
		if f.Type == nil {
			return nil, c.errorf(p, "missing type")
		}
		t, err := c.typ(p+".type", f.Type)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, &ir.FieldDescriptor{Name: f.Name, Type: t})
	}
	return out, nil
}

// inferStyle picks named when the first field is named, positional when
// there are fields, unit otherwise.
func inferStyle(fields []Field) ir.FieldsStyle {
	switch {
	case len(fields) == 0:
		return ir.FieldsUnit
	case fields[0].Name != "":
		return ir.FieldsNamed
	default:
		return ir.FieldsPositional
	}
}

var shapeNames = func() map[string]ir.TypeKind {
	m := make(map[string]ir.TypeKind)
	for k := ir.KindArray; k <= ir.KindVerbatim; k++ {
		m[strings.ToLower(k.String())] = k
	}
	return m
}()

// parseShape maps "trait_object", "TraitObject" and "traitobject" alike.
func parseShape(kind string) (ir.TypeKind, bool) {
	k, ok := shapeNames[strings.ToLower(strings.ReplaceAll(kind, "_", ""))]
	return k, ok
}

func (c *converter) typ(path string, t *Type) (ir.TypeExpr, error) {
	if t == nil {
		return nil, c.errorf(path, "missing type")
	}
	kind := t.Kind
	if kind == "" && (t.Path != "" || len(t.Segments) > 0) {
		kind = "path"
	}
	shape, ok := parseShape(kind)
	if !ok {
		return nil, c.errorf(path+".kind", "unknown type kind %q", t.Kind)
	}

	switch shape {
	case ir.KindArray:
		elem, err := c.typ(path+".elem", t.Elem)
		if err != nil {
			return nil, err
		}
		if t.Len == nil {
			return nil, c.errorf(path+".len", "array has no length")
		}
		n, err := c.expr(path+".len", t.Len)
		if err != nil {
			return nil, err
		}
		return &ir.ArrayType{Elem: elem, Len: n}, nil
	case ir.KindReference:
		elem, err := c.typ(path+".elem", t.Elem)
		if err != nil {
			return nil, err
		}
		return &ir.ReferenceType{Lifetime: ir.NormalizeLifetime(t.Lifetime), Mutable: t.Mut, Elem: elem}, nil
	case ir.KindSlice:
		elem, err := c.typ(path+".elem", t.Elem)
		if err != nil {
			return nil, err
		}
		return &ir.SliceType{Elem: elem}, nil
	case ir.KindTuple:
		tup := &ir.TupleType{}
		for i, e := range t.Elems {
			et, err := c.typ(fmt.Sprintf("%s.elems[%d]", path, i), e)
			if err != nil {
				return nil, err
			}
			tup.Elems = append(tup.Elems, et)
		}
		return tup, nil
	case ir.KindPath:
		return c.path(path, t)
	default:
		return ir.Unsupported(shape, t.Text), nil
	}
}

func (c *converter) path(path string, t *Type) (*ir.PathType, error) {
	out := &ir.PathType{LeadingColon: t.Global, QualifiedSelf: t.QualifiedSelf}
	switch {
	case t.Path != "" && len(t.Segments) > 0:
		return nil, c.errorf(path, "path and segments are mutually exclusive")
	case t.Path != "":
		p := t.Path
		if strings.HasPrefix(p, "::") {
			out.LeadingColon = true
			p = p[2:]
		}
		for _, id := range strings.Split(p, "::") {
			if id == "" {
				return nil, c.errorf(path+".path", "empty segment in %q", t.Path)
			}
			out.Segments = append(out.Segments, ir.PathSegment{Ident: id})
		}
		args, err := c.args(path+".args", t.Args)
		if err != nil {
			return nil, err
		}
		out.Segments[len(out.Segments)-1].Args = args
	case len(t.Segments) > 0:
		if len(t.Args) > 0 {
			return nil, c.errorf(path+".args", "args require the path shorthand; put them on a segment")
		}
		for i, s := range t.Segments {
			p := fmt.Sprintf("%s.segments[%d]", path, i)
			if s.Ident == "" {
				return nil, c.errorf(p, "missing ident")
			}
			args, err := c.args(p+".args", s.Args)
			if err != nil {
				return nil, err
			}
			out.Segments = append(out.Segments, ir.PathSegment{Ident: s.Ident, Args: args, Parenthesized: s.Parenthesized})
		}
	default:
		return nil, c.errorf(path, "path has no segments")
	}
	return out, nil
}

func (c *converter) args(path string, as []Arg) ([]ir.GenericArg, error) {
	var out []ir.GenericArg
	for i, a := range as {
		p := fmt.Sprintf("%s[%d]", path, i)
		switch a.Kind {
		case "lifetime":
			name := a.Lifetime
			if name == "" {
				name = a.Name
			}
			if name == "" {
				return nil, c.errorf(p, "lifetime argument has no lifetime")
			}
			out = append(out, ir.LifetimeArg{Name: ir.NormalizeLifetime(name)})
		case "type", "":
			t, err := c.typ(p+".type", a.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.TypeArg{Type: t})
		case "binding":
			if a.Name == "" {
				return nil, c.errorf(p, "binding has no name")
			}
			t, err := c.typ(p+".type", a.Type)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.BindingArg{Name: a.Name, Type: t})
		case "constraint":
			if a.Name == "" {
				return nil, c.errorf(p, "constraint has no name")
			}
			bounds, err := c.bounds(p+".bounds", a.Bounds)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.ConstraintArg{Name: a.Name, Bounds: bounds})
		case "const":
			if a.Value == nil {
				return nil, c.errorf(p, "const argument has no value")
			}
			e, err := c.expr(p+".value", a.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.ConstArg{Value: e})
		default:
			return nil, c.errorf(p+".kind", "unknown generic argument kind %q", a.Kind)
		}
	}
	return out, nil
}

var litKinds = map[string]ir.LitKind{
	"str":      ir.LitStr,
	"bytestr":  ir.LitByteStr,
	"byte":     ir.LitByte,
	"char":     ir.LitChar,
	"int":      ir.LitInt,
	"float":    ir.LitFloat,
	"bool":     ir.LitBool,
	"verbatim": ir.LitVerbatim,
}

func (c *converter) expr(path string, e *Expr) (ir.Expr, error) {
	if e.Kind == "" {
		return nil, c.errorf(path, "expression has no kind")
	}
	if k, ok := litKinds[strings.ToLower(strings.ReplaceAll(e.Kind, "_", ""))]; ok {
		return &ir.LitExpr{Lit: ir.Literal{Kind: k, Value: e.Value}}, nil
	}
	return &ir.OtherExpr{Form: e.Kind}, nil
}

func normalizeLifetimes(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = ir.NormalizeLifetime(n)
	}
	return out
}
