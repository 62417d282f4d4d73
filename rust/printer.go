// Package rust renders ir descriptors as Rust source text: type expressions,
// generic parameter lists, match patterns, derived methods and index-type
// modules.
//
// Every function is pure. The same descriptor always produces byte-identical
// output, and anything outside the supported grammar fails with a
// classified diag error instead of being approximated.
package rust

import (
	"strconv"
	"strings"

	"github.com/broady/derivegen/diag"
	"github.com/broady/derivegen/ir"
)

// RenderType renders a type expression.
// A nil node, typed or not, is an invalid descriptor.
func RenderType(typ ir.TypeExpr) (string, error) {
	switch t := typ.(type) {
	case *ir.ArrayType:
		if t == nil {
			return "", missingType()
		}
		return renderArray(t)
	case *ir.ReferenceType:
		if t == nil {
			return "", missingType()
		}
		return renderReference(t)
	case *ir.SliceType:
		if t == nil {
			return "", missingType()
		}
		elem, err := RenderType(t.Elem)
		if err != nil {
			return "", err
		}
		return "[" + elem + "]", nil
	case *ir.TupleType:
		if t == nil {
			return "", missingType()
		}
		return renderTuple(t)
	case *ir.PathType:
		return renderPath(t)
	case *ir.UnsupportedType:
		if t == nil {
			return "", missingType()
		}
		return "", unsupportedType(t.Shape)
	case nil:
		return "", missingType()
	default:
		return "", unsupportedType(typ.Kind())
	}
}

func missingType() error {
	return diag.New(diag.CodeInvalidDescriptor, "type", "missing type expression")
}

func unsupportedType(shape ir.TypeKind) error {
	return diag.Unsupported(diag.CodeUnsupportedTypeForm, "type", shape.String(),
		"type cannot be named in generated code")
}

func renderArray(a *ir.ArrayType) (string, error) {
	elem, err := RenderType(a.Elem)
	if err != nil {
		return "", err
	}
	n, err := renderExpr(a.Len)
	if err != nil {
		return "", err
	}
	return "[" + elem + "; " + n + "]", nil
}

// renderReference renders & 'a mut T without a space between & and the
// lifetime, e.g. "& T", "&'a T", "&'a mut T".
func renderReference(r *ir.ReferenceType) (string, error) {
	elem, err := RenderType(r.Elem)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("&")
	if r.Lifetime != "" {
		b.WriteString(renderLifetime(r.Lifetime))
	}
	if r.Mutable {
		b.WriteString(" mut")
	}
	b.WriteString(" ")
	b.WriteString(elem)
	return b.String(), nil
}

func renderTuple(t *ir.TupleType) (string, error) {
	elems, err := renderTypes(t.Elems)
	if err != nil {
		return "", err
	}
	if len(elems) == 1 {
		// (T) is a parenthesized type, not a tuple.
		return "(" + elems[0] + ",)", nil
	}
	return "(" + strings.Join(elems, ", ") + ")", nil
}

func renderTypes(types []ir.TypeExpr) ([]string, error) {
	out := make([]string, 0, len(types))
	for _, t := range types {
		s, err := RenderType(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func renderPath(p *ir.PathType) (string, error) {
	if p == nil {
		return "", diag.New(diag.CodeInvalidDescriptor, "path", "missing path")
	}
	if p.QualifiedSelf {
		return "", diag.Unsupported(diag.CodeUnimplementedForm, "path", "QSelf",
			"qualified self paths are not supported")
	}
	if len(p.Segments) == 0 {
		return "", diag.New(diag.CodeInvalidDescriptor, "path", "path has no segments")
	}
	segs := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		s, err := renderSegment(seg)
		if err != nil {
			return "", err
		}
		segs[i] = s
	}
	out := strings.Join(segs, "::")
	if p.LeadingColon {
		out = "::" + out
	}
	return out, nil
}

func renderSegment(seg ir.PathSegment) (string, error) {
	if seg.Ident == "" {
		return "", diag.New(diag.CodeInvalidDescriptor, "path", "empty path segment")
	}
	if seg.Parenthesized {
		return "", diag.Unsupported(diag.CodeUnimplementedForm, seg.Ident, "Parenthesized",
			"parenthesized generic arguments are not supported")
	}
	if len(seg.Args) == 0 {
		return seg.Ident, nil
	}
	args := make([]string, len(seg.Args))
	for i, a := range seg.Args {
		s, err := renderGenericArg(a)
		if err != nil {
			return "", err
		}
		args[i] = s
	}
	return seg.Ident + "<" + strings.Join(args, ", ") + ">", nil
}

func renderGenericArg(arg ir.GenericArg) (string, error) {
	switch a := arg.(type) {
	case ir.LifetimeArg:
		return renderLifetime(a.Name), nil
	case ir.TypeArg:
		return RenderType(a.Type)
	case ir.BindingArg:
		t, err := RenderType(a.Type)
		if err != nil {
			return "", err
		}
		return a.Name + " = " + t, nil
	case ir.ConstraintArg:
		bounds, err := RenderBounds(a.Bounds)
		if err != nil {
			return "", err
		}
		return a.Name + " : " + bounds, nil
	case ir.ConstArg:
		return renderExpr(a.Value)
	default:
		return "", diag.New(diag.CodeInvalidDescriptor, "generic argument", "missing generic argument")
	}
}

// renderExpr renders a const expression. Only literals are supported.
func renderExpr(e ir.Expr) (string, error) {
	switch x := e.(type) {
	case *ir.LitExpr:
		if x == nil {
			break
		}
		return RenderLiteral(x.Lit)
	case *ir.OtherExpr:
		if x == nil {
			break
		}
		return "", diag.Unsupported(diag.CodeUnimplementedForm, "const expression", x.Form,
			"only literal expressions are supported")
	}
	return "", diag.New(diag.CodeInvalidDescriptor, "const expression", "missing expression")
}

// RenderLiteral renders a literal as Rust source. String, char and byte
// literals are quoted so the result can be spliced back as an expression.
func RenderLiteral(l ir.Literal) (string, error) {
	switch l.Kind {
	case ir.LitStr:
		return `"` + escape(l.Value, '"') + `"`, nil
	case ir.LitChar:
		return "'" + escape(l.Value, '\'') + "'", nil
	case ir.LitByte:
		if len(l.Value) != 1 {
			return "", diag.Newf(diag.CodeInvalidDescriptor, "literal", "byte literal %q is not a single byte", l.Value)
		}
		return "b'" + escape(l.Value, '\'') + "'", nil
	case ir.LitInt, ir.LitFloat:
		if l.Value == "" {
			return "", diag.New(diag.CodeInvalidDescriptor, "literal", "empty numeric literal")
		}
		return l.Value, nil
	case ir.LitBool:
		b, err := strconv.ParseBool(l.Value)
		if err != nil {
			return "", diag.Newf(diag.CodeInvalidDescriptor, "literal", "invalid bool literal %q", l.Value)
		}
		return strconv.FormatBool(b), nil
	default:
		return "", diag.Unsupported(diag.CodeUnimplementedForm, "literal", l.Kind.String(),
			"literal kind is not supported")
	}
}

// escape applies Rust's escape rules for a quoted literal.
func escape(s string, quote rune) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == 0:
			b.WriteString(`\0`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\u{` + strconv.FormatInt(int64(r), 16) + `}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func renderLifetime(name string) string {
	return "'" + ir.NormalizeLifetime(name)
}

// RenderBounds renders a bound list joined by " + ".
func RenderBounds(bounds []ir.Bound) (string, error) {
	parts := make([]string, len(bounds))
	for i, b := range bounds {
		s, err := renderBound(b)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, " + "), nil
}

func renderBound(b ir.Bound) (string, error) {
	switch t := b.(type) {
	case *ir.TraitBound:
		if t == nil {
			break
		}
		if t.Modifier != ir.ModifierNone {
			return "", diag.Unsupported(diag.CodeUnimplementedForm, "trait bound", t.Modifier.String(),
				"trait bound modifiers are not supported")
		}
		if len(t.Lifetimes) > 0 {
			return "", diag.Unsupported(diag.CodeUnimplementedForm, "trait bound", "HigherRanked",
				"higher-ranked lifetimes are not supported")
		}
		return renderPath(t.Path)
	case *ir.LifetimeBound:
		if t == nil {
			break
		}
		return renderLifetime(t.Name), nil
	}
	return "", diag.New(diag.CodeInvalidDescriptor, "bound", "missing bound")
}
