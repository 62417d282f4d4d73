package ir

// GenericArg is one argument inside a path segment's angle brackets.
type GenericArg interface {
	genericArg()
}

// LifetimeArg is a lifetime argument ('a).
type LifetimeArg struct {
	Name string
}

// TypeArg is a type argument.
type TypeArg struct {
	Type TypeExpr
}

// BindingArg binds an associated type: Item = T.
type BindingArg struct {
	Name string
	Type TypeExpr
}

// ConstraintArg constrains an associated type: Item: Clone + Debug.
type ConstraintArg struct {
	Name   string
	Bounds []Bound
}

// ConstArg is a const expression argument. Only literals are renderable.
type ConstArg struct {
	Value Expr
}

func (LifetimeArg) genericArg()   {}
func (TypeArg) genericArg()       {}
func (BindingArg) genericArg()    {}
func (ConstArg) genericArg()      {}
func (ConstraintArg) genericArg() {}

// Expr is a const expression appearing in array lengths and const
// arguments.
type Expr interface {
	expr()
}

// LitExpr is a literal expression.
type LitExpr struct {
	Lit Literal
}

// OtherExpr is any non-literal expression. It is never renderable.
type OtherExpr struct {
	// Form names the expression kind, e.g. "Binary" or "Path".
	Form string
}

func (*LitExpr) expr()   {}
func (*OtherExpr) expr() {}

// LitKind identifies the kind of a literal.
type LitKind int

const (
	LitStr LitKind = iota
	LitByteStr
	LitByte
	LitChar
	LitInt
	LitFloat
	LitBool
	LitVerbatim
)

var litKindNames = map[LitKind]string{
	LitStr:      "Str",
	LitByteStr:  "ByteStr",
	LitByte:     "Byte",
	LitChar:     "Char",
	LitInt:      "Int",
	LitFloat:    "Float",
	LitBool:     "Bool",
	LitVerbatim: "Verbatim",
}

func (k LitKind) String() string {
	if s, ok := litKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseLitKind returns the literal kind named s.
func ParseLitKind(s string) (LitKind, bool) {
	for k, name := range litKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Literal is a literal value. Value holds the decoded content: the string
// for Str, the character for Char and Byte, the digits (with any suffix)
// for Int and Float, and "true"/"false" for Bool.
type Literal struct {
	Kind  LitKind
	Value string
}

// GenericParam is one parameter of a declaration's generic list.
type GenericParam interface {
	ParamName() string
	genericParam()
}

// TypeParam is a type parameter with optional bounds (T: Clone + 'a).
type TypeParam struct {
	Name   string
	Bounds []Bound
}

// LifetimeParam is a lifetime parameter with optional outlives bounds
// ('a: 'b). Names are stored without the apostrophe.
type LifetimeParam struct {
	Name   string
	Bounds []string
}

// ConstParam is a const generic parameter (const N: usize). It can be
// described but never rendered.
type ConstParam struct {
	Name string
	Type TypeExpr
}

func (p *TypeParam) ParamName() string     { return p.Name }
func (p *LifetimeParam) ParamName() string { return p.Name }
func (p *ConstParam) ParamName() string    { return p.Name }

func (*TypeParam) genericParam()     {}
func (*LifetimeParam) genericParam() {}
func (*ConstParam) genericParam()    {}

// Bound is a trait or lifetime bound.
type Bound interface {
	bound()
}

// BoundModifier is the modifier on a trait bound.
type BoundModifier int

const (
	ModifierNone  BoundModifier = iota
	ModifierMaybe               // ?Sized
)

func (m BoundModifier) String() string {
	if m == ModifierMaybe {
		return "Maybe"
	}
	return "None"
}

// TraitBound is a trait bound such as Clone or Iterator<Item = T>.
type TraitBound struct {
	Path     *PathType
	Modifier BoundModifier

	// Lifetimes holds higher-ranked lifetimes (for<'a> ...), which are not
	// renderable.
	Lifetimes []string
}

// LifetimeBound is a lifetime bound ('a).
type LifetimeBound struct {
	Name string
}

func (*TraitBound) bound()    {}
func (*LifetimeBound) bound() {}

// Trait returns a TraitBound on a plain path.
func Trait(idents ...string) *TraitBound {
	return &TraitBound{Path: Path(idents...)}
}

// WhereClause is an ordered list of where predicates.
type WhereClause struct {
	Predicates []WherePredicate
}

// WherePredicate is one predicate of a where clause.
type WherePredicate interface {
	wherePredicate()
}

// TypePredicate bounds a type: T: Clone.
type TypePredicate struct {
	Bounded TypeExpr
	Bounds  []Bound

	// Lifetimes holds higher-ranked lifetimes, which are not renderable.
	Lifetimes []string
}

// LifetimePredicate bounds a lifetime: 'a: 'b + 'c.
type LifetimePredicate struct {
	Lifetime string
	Bounds   []string
}

// EqPredicate equates two types: T::Item = U.
type EqPredicate struct {
	Lhs TypeExpr
	Rhs TypeExpr
}

func (*TypePredicate) wherePredicate()     {}
func (*LifetimePredicate) wherePredicate() {}
func (*EqPredicate) wherePredicate()       {}
