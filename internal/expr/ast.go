package expr

import "strings"

// Expr represents a formula.
type Expr interface {
	isExpr()
	String() string
}

var (
	_ Expr = Bottom{}
	_ Expr = Top{}
	_ Expr = Pred{}
	_ Expr = Not{}
	_ Expr = Binary{}
	_ Expr = Quant{}
)

// Bottom is the contradiction constant.
type Bottom struct{}

func (Bottom) isExpr()        {}
func (Bottom) String() string { return "⊥" }

// Top is the tautology constant.
type Top struct{}

func (Top) isExpr()        {}
func (Top) String() string { return "⊤" }

// Pred is a predicate applied to individual terms. A predicate without
// arguments is a proposition letter.
type Pred struct {
	Name string
	Args []string
}

func (Pred) isExpr() {}
func (e Pred) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	return e.Name + "(" + strings.Join(e.Args, ", ") + ")"
}

// Not is a negation.
type Not struct {
	X Expr
}

func (Not) isExpr() {}
func (e Not) String() string {
	return "¬" + operand(e.X)
}

// BinaryOp represents binary connectives.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpAnd
	OpOr
	OpImplies
	OpIff
)

func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "∧"
	case OpOr:
		return "∨"
	case OpImplies:
		return "→"
	case OpIff:
		return "↔"
	default:
		return "?"
	}
}

// Binary is a formula joined by a binary connective.
type Binary struct {
	Op BinaryOp
	L  Expr
	R  Expr
}

func (Binary) isExpr() {}
func (e Binary) String() string {
	return operand(e.L) + " " + e.Op.String() + " " + operand(e.R)
}

// QuantKind distinguishes the two quantifiers.
type QuantKind int

const (
	Forall QuantKind = iota
	Exists
)

func (k QuantKind) String() string {
	if k == Exists {
		return "∃"
	}
	return "∀"
}

// Quant binds Var in Body.
type Quant struct {
	Kind QuantKind
	Var  string
	Body Expr
}

func (Quant) isExpr() {}
func (e Quant) String() string {
	return e.Kind.String() + e.Var + " " + operand(e.Body)
}

// operand renders a sub-formula, parenthesizing binary formulas.
func operand(e Expr) string {
	if _, ok := e.(Binary); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Helper functions to construct formulas

// P creates a predicate, or a proposition letter when no args are given.
func P(name string, args ...string) Expr {
	return Pred{Name: name, Args: args}
}

// Neg creates a negation.
func Neg(x Expr) Expr {
	return Not{X: x}
}

// And creates a conjunction.
func And(l, r Expr) Expr {
	return Binary{Op: OpAnd, L: l, R: r}
}

// Or creates a disjunction.
func Or(l, r Expr) Expr {
	return Binary{Op: OpOr, L: l, R: r}
}

// Implies creates an implication.
func Implies(l, r Expr) Expr {
	return Binary{Op: OpImplies, L: l, R: r}
}

// Iff creates a biconditional.
func Iff(l, r Expr) Expr {
	return Binary{Op: OpIff, L: l, R: r}
}

// All creates a universally quantified formula.
func All(v string, body Expr) Expr {
	return Quant{Kind: Forall, Var: v, Body: body}
}

// Some creates an existentially quantified formula.
func Some(v string, body Expr) Expr {
	return Quant{Kind: Exists, Var: v, Body: body}
}

// AsBinary reports whether e is a binary formula with the given connective.
func AsBinary(e Expr, op BinaryOp) (Binary, bool) {
	b, ok := e.(Binary)
	if !ok || b.Op != op {
		return Binary{}, false
	}
	return b, true
}

// AsNot reports whether e is a negation and returns its operand.
func AsNot(e Expr) (Expr, bool) {
	n, ok := e.(Not)
	if !ok {
		return nil, false
	}
	return n.X, true
}
