package rules

import (
	"github.com/gnoswap-labs/fitch/internal/expr"
)

func checkReiteration(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	if !expr.Equal(ps[0], c) {
		return mismatchf("the conclusion must be identical to the cited line")
	}
	return nil
}

func checkAndIntro(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	and, ok := expr.AsBinary(c, expr.OpAnd)
	if !ok {
		return mismatchf("the conclusion must be a conjunction")
	}
	if !samePair(and.L, and.R, ps[0], ps[1]) {
		return mismatchf("the conjuncts of the conclusion must be the cited lines")
	}
	return nil
}

func checkAndElim(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	and, ok := expr.AsBinary(ps[0], expr.OpAnd)
	if !ok {
		return mismatchf("the cited line must be a conjunction")
	}
	if !expr.Equal(c, and.L) && !expr.Equal(c, and.R) {
		return mismatchf("the conclusion must be one of the conjuncts of the cited line")
	}
	return nil
}

func checkOrIntro(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	or, ok := expr.AsBinary(c, expr.OpOr)
	if !ok {
		return mismatchf("the conclusion must be a disjunction")
	}
	for _, d := range disjuncts(or, nil) {
		if expr.Equal(ps[0], d) {
			return nil
		}
	}
	return mismatchf("the cited line must be one of the disjuncts of the conclusion")
}

// disjuncts collects every operand of a chain of disjunctions, in either
// nesting, so that A ∨ B ∨ C yields A ∨ B, A, B and C.
func disjuncts(or expr.Binary, out []expr.Expr) []expr.Expr {
	for _, side := range []expr.Expr{or.L, or.R} {
		out = append(out, side)
		if inner, ok := expr.AsBinary(side, expr.OpOr); ok {
			out = disjuncts(inner, out)
		}
	}
	return out
}

func checkOrElim(c expr.Expr, ps []expr.Expr, ss []Subproof) error {
	or, ok := expr.AsBinary(ps[0], expr.OpOr)
	if !ok {
		return mismatchf("the cited line must be a disjunction")
	}
	if !samePair(or.L, or.R, ss[0].Assumption, ss[1].Assumption) {
		return mismatchf("each cited subproof must assume one disjunct of the cited line")
	}
	for _, s := range ss {
		if !expr.Equal(s.Result, c) {
			return mismatchf("every cited subproof must end with the conclusion")
		}
	}
	return nil
}

func checkImpliesIntro(c expr.Expr, _ []expr.Expr, ss []Subproof) error {
	imp, ok := expr.AsBinary(c, expr.OpImplies)
	if !ok {
		return mismatchf("the conclusion must be an implication")
	}
	if !expr.Equal(ss[0].Assumption, imp.L) {
		return mismatchf("the subproof must assume the antecedent of the conclusion")
	}
	if !expr.Equal(ss[0].Result, imp.R) {
		return mismatchf("the subproof must end with the consequent of the conclusion")
	}
	return nil
}

func checkImpliesElim(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	for _, order := range pairOrders(ps) {
		imp, ok := expr.AsBinary(order[0], expr.OpImplies)
		if !ok || !expr.Equal(imp.L, order[1]) {
			continue
		}
		if !expr.Equal(imp.R, c) {
			return mismatchf("the conclusion must be the consequent of the cited implication")
		}
		return nil
	}
	return mismatchf("one cited line must be an implication whose antecedent is the other cited line")
}

func checkNotIntro(c expr.Expr, _ []expr.Expr, ss []Subproof) error {
	x, ok := expr.AsNot(c)
	if !ok {
		return mismatchf("the conclusion must be a negation")
	}
	if !expr.Equal(ss[0].Assumption, x) {
		return mismatchf("the subproof must assume the negated formula")
	}
	if _, ok := ss[0].Result.(expr.Bottom); !ok {
		return mismatchf("the subproof must end with ⊥")
	}
	return nil
}

func checkNotElim(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	inner, ok := expr.AsNot(ps[0])
	if ok {
		inner, ok = expr.AsNot(inner)
	}
	if !ok {
		return mismatchf("the cited line must be a double negation")
	}
	if !expr.Equal(inner, c) {
		return mismatchf("the conclusion must be the cited line without its double negation")
	}
	return nil
}

func checkBottomIntro(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	if _, ok := c.(expr.Bottom); !ok {
		return mismatchf("the conclusion must be ⊥")
	}
	for _, order := range pairOrders(ps) {
		if x, ok := expr.AsNot(order[1]); ok && expr.Equal(x, order[0]) {
			return nil
		}
	}
	return mismatchf("the cited lines must be a formula and its negation")
}

func checkBottomElim(_ expr.Expr, ps []expr.Expr, _ []Subproof) error {
	if _, ok := ps[0].(expr.Bottom); !ok {
		return mismatchf("the cited line must be ⊥")
	}
	return nil
}

func checkIffIntro(c expr.Expr, _ []expr.Expr, ss []Subproof) error {
	iff, ok := expr.AsBinary(c, expr.OpIff)
	if !ok {
		return mismatchf("the conclusion must be a biconditional")
	}
	forward := func(s Subproof) bool {
		return expr.Equal(s.Assumption, iff.L) && expr.Equal(s.Result, iff.R)
	}
	backward := func(s Subproof) bool {
		return expr.Equal(s.Assumption, iff.R) && expr.Equal(s.Result, iff.L)
	}
	if (forward(ss[0]) && backward(ss[1])) || (forward(ss[1]) && backward(ss[0])) {
		return nil
	}
	return mismatchf("the subproofs must derive each side of the biconditional from the other")
}

func checkIffElim(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	for _, order := range pairOrders(ps) {
		iff, ok := expr.AsBinary(order[0], expr.OpIff)
		if !ok {
			continue
		}
		switch {
		case expr.Equal(order[1], iff.L):
			if expr.Equal(c, iff.R) {
				return nil
			}
		case expr.Equal(order[1], iff.R):
			if expr.Equal(c, iff.L) {
				return nil
			}
		default:
			continue
		}
		return mismatchf("the conclusion must be the other side of the cited biconditional")
	}
	return mismatchf("one cited line must be a biconditional and the other one of its sides")
}

func checkModusTollens(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	for _, order := range pairOrders(ps) {
		imp, ok := expr.AsBinary(order[0], expr.OpImplies)
		if !ok {
			continue
		}
		if x, ok := expr.AsNot(order[1]); !ok || !expr.Equal(x, imp.R) {
			continue
		}
		if !expr.Equal(c, expr.Neg(imp.L)) {
			return mismatchf("the conclusion must be the negated antecedent of the cited implication")
		}
		return nil
	}
	return mismatchf("the cited lines must be an implication and the negation of its consequent")
}

func checkDisjunctiveSyllogism(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	for _, order := range pairOrders(ps) {
		or, ok := expr.AsBinary(order[0], expr.OpOr)
		if !ok {
			continue
		}
		x, ok := expr.AsNot(order[1])
		if !ok {
			continue
		}
		switch {
		case expr.Equal(x, or.L):
			if expr.Equal(c, or.R) {
				return nil
			}
		case expr.Equal(x, or.R):
			if expr.Equal(c, or.L) {
				return nil
			}
		default:
			continue
		}
		return mismatchf("the conclusion must be the remaining disjunct")
	}
	return mismatchf("the cited lines must be a disjunction and the negation of one disjunct")
}

func checkHypotheticalSyllogism(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	want, ok := expr.AsBinary(c, expr.OpImplies)
	if !ok {
		return mismatchf("the conclusion must be an implication")
	}
	for _, order := range pairOrders(ps) {
		first, ok1 := expr.AsBinary(order[0], expr.OpImplies)
		second, ok2 := expr.AsBinary(order[1], expr.OpImplies)
		if !ok1 || !ok2 || !expr.Equal(first.R, second.L) {
			continue
		}
		if expr.Equal(first.L, want.L) && expr.Equal(second.R, want.R) {
			return nil
		}
	}
	return mismatchf("the cited implications must chain from the antecedent to the consequent of the conclusion")
}

func checkForallElim(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	q, ok := ps[0].(expr.Quant)
	if !ok || q.Kind != expr.Forall {
		return mismatchf("the cited line must be universally quantified")
	}
	if _, ok := expr.Instance(q.Body, q.Var, c); !ok {
		return mismatchf("the conclusion must be an instance of the cited line")
	}
	return nil
}

func checkExistsIntro(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	q, ok := c.(expr.Quant)
	if !ok || q.Kind != expr.Exists {
		return mismatchf("the conclusion must be existentially quantified")
	}
	if _, ok := expr.Instance(q.Body, q.Var, ps[0]); !ok {
		return mismatchf("the cited line must be an instance of the conclusion")
	}
	return nil
}

// checkForallIntro accepts ∀x φ from φ[a/x] when a does not occur free in
// the conclusion.
func checkForallIntro(c expr.Expr, ps []expr.Expr, _ []Subproof) error {
	q, ok := c.(expr.Quant)
	if !ok || q.Kind != expr.Forall {
		return mismatchf("the conclusion must be universally quantified")
	}
	a, ok := expr.Instance(q.Body, q.Var, ps[0])
	if !ok {
		return mismatchf("the cited line must be an instance of the conclusion")
	}
	if a != "" && expr.FreeIn(c, a) {
		return mismatchf("%s must not occur free in the conclusion", a)
	}
	return nil
}

func forallIntroTerm(c expr.Expr, ps []expr.Expr, _ []Subproof) string {
	q, ok := c.(expr.Quant)
	if !ok {
		return ""
	}
	a, _ := expr.Instance(q.Body, q.Var, ps[0])
	return a
}

// checkExistsElim accepts ψ from ∃x φ and a subproof that assumes φ[a/x] and
// ends with ψ, when a occurs free in neither ∃x φ nor ψ.
func checkExistsElim(c expr.Expr, ps []expr.Expr, ss []Subproof) error {
	q, ok := ps[0].(expr.Quant)
	if !ok || q.Kind != expr.Exists {
		return mismatchf("the cited line must be existentially quantified")
	}
	a, ok := expr.Instance(q.Body, q.Var, ss[0].Assumption)
	if !ok {
		return mismatchf("the cited subproof must assume an instance of the cited line")
	}
	if !expr.Equal(ss[0].Result, c) {
		return mismatchf("the cited subproof must end with the conclusion")
	}
	switch {
	case a == "":
	case expr.FreeIn(ps[0], a):
		return mismatchf("%s must not occur free in the cited line", a)
	case expr.FreeIn(c, a):
		return mismatchf("%s must not occur free in the conclusion", a)
	}
	return nil
}

func existsElimTerm(_ expr.Expr, ps []expr.Expr, ss []Subproof) string {
	q, ok := ps[0].(expr.Quant)
	if !ok {
		return ""
	}
	a, _ := expr.Instance(q.Body, q.Var, ss[0].Assumption)
	return a
}

// samePair reports whether {a, b} and {x, y} are the same pair in either order.
func samePair(a, b, x, y expr.Expr) bool {
	return (expr.Equal(a, x) && expr.Equal(b, y)) || (expr.Equal(a, y) && expr.Equal(b, x))
}

// pairOrders returns both orderings of a two-element premise list. Rules
// with two premises accept them in any citation order.
func pairOrders(ps []expr.Expr) [2][2]expr.Expr {
	return [2][2]expr.Expr{{ps[0], ps[1]}, {ps[1], ps[0]}}
}
