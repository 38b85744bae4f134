package expr

import "slices"

// Equal reports whether a and b are structurally identical. Bound variable
// names are significant: ∀x P(x) and ∀y P(y) are different formulas.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Bottom:
		_, ok := b.(Bottom)
		return ok
	case Top:
		_, ok := b.(Top)
		return ok
	case Pred:
		y, ok := b.(Pred)
		return ok && x.Name == y.Name && slices.Equal(x.Args, y.Args)
	case Not:
		y, ok := b.(Not)
		return ok && Equal(x.X, y.X)
	case Binary:
		y, ok := b.(Binary)
		return ok && x.Op == y.Op && Equal(x.L, y.L) && Equal(x.R, y.R)
	case Quant:
		y, ok := b.(Quant)
		return ok && x.Kind == y.Kind && x.Var == y.Var && Equal(x.Body, y.Body)
	default:
		return false
	}
}

// FreeIn reports whether the individual variable v occurs free in e.
func FreeIn(e Expr, v string) bool {
	switch x := e.(type) {
	case Pred:
		return slices.Contains(x.Args, v)
	case Not:
		return FreeIn(x.X, v)
	case Binary:
		return FreeIn(x.L, v) || FreeIn(x.R, v)
	case Quant:
		return x.Var != v && FreeIn(x.Body, v)
	default:
		return false
	}
}

// Subst replaces the free occurrences of v in e with term. Occurrences under
// a quantifier binding v are left alone. The caller is responsible for
// ensuring term is not captured by a quantifier in e; see Instance.
func Subst(e Expr, v, term string) Expr {
	switch x := e.(type) {
	case Pred:
		if len(x.Args) == 0 {
			return x
		}
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			if a == v {
				a = term
			}
			args[i] = a
		}
		return Pred{Name: x.Name, Args: args}
	case Not:
		return Not{X: Subst(x.X, v, term)}
	case Binary:
		return Binary{Op: x.Op, L: Subst(x.L, v, term), R: Subst(x.R, v, term)}
	case Quant:
		if x.Var == v {
			return x
		}
		return Quant{Kind: x.Kind, Var: x.Var, Body: Subst(x.Body, v, term)}
	default:
		return e
	}
}

// Instance reports whether target is body with every free occurrence of v
// replaced by one and the same term, and returns that term. When v does not
// occur free in body the term is empty and target must equal body.
// A term that would be captured by a quantifier inside body is rejected.
func Instance(body Expr, v string, target Expr) (string, bool) {
	m := &instanceMatcher{v: v}
	if !m.match(body, target, nil) {
		return "", false
	}
	return m.term, true
}

type instanceMatcher struct {
	v     string
	term  string
	bound bool
}

func (m *instanceMatcher) match(pattern, target Expr, binders []string) bool {
	switch p := pattern.(type) {
	case Pred:
		t, ok := target.(Pred)
		if !ok || p.Name != t.Name || len(p.Args) != len(t.Args) {
			return false
		}
		for i, a := range p.Args {
			if a != m.v || slices.Contains(binders, m.v) {
				if a != t.Args[i] {
					return false
				}
				continue
			}
			if !m.bind(t.Args[i], binders) {
				return false
			}
		}
		return true
	case Not:
		t, ok := target.(Not)
		return ok && m.match(p.X, t.X, binders)
	case Binary:
		t, ok := target.(Binary)
		return ok && p.Op == t.Op && m.match(p.L, t.L, binders) && m.match(p.R, t.R, binders)
	case Quant:
		t, ok := target.(Quant)
		if !ok || p.Kind != t.Kind || p.Var != t.Var {
			return false
		}
		return m.match(p.Body, t.Body, append(slices.Clone(binders), p.Var))
	default:
		return Equal(pattern, target)
	}
}

func (m *instanceMatcher) bind(term string, binders []string) bool {
	if slices.Contains(binders, term) {
		return false
	}
	if m.bound {
		return m.term == term
	}
	m.term, m.bound = term, true
	return true
}
