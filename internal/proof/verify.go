package proof

import (
	"fmt"

	"github.com/gnoswap-labs/fitch/internal/expr"
	"github.com/gnoswap-labs/fitch/internal/rules"
)

// VerifyLine checks that line i is justified. Assumption lines always are.
// For a derived line the citations are resolved against the scope chain of
// the line first, and the resolved formulas are then handed to the line's
// rule, whose verdict is returned unchanged.
func (p *Proof) VerifyLine(i int) error {
	l, err := p.line("verify", i)
	if err != nil {
		return err
	}
	if l.Assumption {
		return nil
	}
	if !l.Parsed {
		return &ParseError{Index: i, Cited: i, Text: l.Text, Err: l.ParseErr}
	}
	if l.Rule == rules.None {
		return &MissingRuleError{Index: i}
	}

	var (
		premises  []expr.Expr
		subproofs []rules.Subproof
	)
	for _, ref := range l.Refs {
		j, err := p.resolve(i, ref)
		if err != nil {
			return err
		}
		if !ref.Subproof {
			e, err := p.formula(i, j)
			if err != nil {
				return err
			}
			premises = append(premises, e)
			continue
		}
		assumption, err := p.formula(i, j)
		if err != nil {
			return err
		}
		result, err := p.formula(i, p.idx.subproofResult(j))
		if err != nil {
			return err
		}
		subproofs = append(subproofs, rules.Subproof{Assumption: assumption, Result: result})
	}
	conclusion := p.pool.Get(l.Handle)
	if err := l.Rule.Verify(conclusion, premises, subproofs); err != nil {
		return err
	}
	return p.checkFresh(i, l.Rule, l.Rule.FreshTerm(conclusion, premises, subproofs))
}

// checkFresh rejects line i when term occurs free in an assumption that is
// still open at i, top-level premises included.
func (p *Proof) checkFresh(i int, k rules.Kind, term string) error {
	if term == "" {
		return nil
	}
	for j := 0; j < i; j++ {
		l := p.lines[j]
		if !l.Assumption || !l.Parsed || !p.idx.lineVisible(j, i) {
			continue
		}
		if expr.FreeIn(p.pool.Get(l.Handle), term) {
			return &rules.Violation{
				Rule: k,
				Kind: rules.Mismatch,
				Msg:  fmt.Sprintf("%s occurs free in the assumption on line %d", term, j+1),
			}
		}
	}
	return nil
}

// resolve returns the index of the line ref names, after checking that line
// i may cite it.
func (p *Proof) resolve(i int, ref Ref) (int, error) {
	j, ok := p.idx.pos[ref.Line]
	if !ok {
		return 0, &VisibilityError{Index: i, Ref: ref, Target: -1, Reason: "the line no longer exists"}
	}
	fail := func(reason string) error {
		return &VisibilityError{Index: i, Ref: ref, Target: j, Reason: reason}
	}
	if j >= i {
		return 0, fail("it does not come before the citing line")
	}
	if !ref.Subproof {
		if !p.idx.lineVisible(j, i) {
			return 0, fail("it is inside a subproof that has already closed")
		}
		return j, nil
	}

	switch {
	case !p.idx.isOpener(j):
		return 0, fail("it does not open a subproof")
	case p.idx.inside(i, j):
		return 0, fail("the subproof is still open")
	case !p.idx.within(p.idx.scope[i], p.idx.parent[j]):
		return 0, fail("the subproof is nested in a subproof that has already closed")
	}
	return j, nil
}

func (p *Proof) formula(i, j int) (expr.Expr, error) {
	l := p.lines[j]
	if !l.Parsed {
		return nil, &ParseError{Index: i, Cited: j, Text: l.Text, Err: l.ParseErr}
	}
	return p.pool.Get(l.Handle), nil
}

// PossibleRefs lists every citation line i may make, in proof order. A
// closed subproof contributes both its opener as a line, when visible, and
// the subproof itself.
func (p *Proof) PossibleRefs(i int) []Ref {
	if i < 0 || i >= len(p.lines) {
		return nil
	}
	var refs []Ref
	for j := 0; j < i; j++ {
		line := Ref{Line: p.lines[j].ID}
		if _, err := p.resolve(i, line); err == nil {
			refs = append(refs, line)
		}
		if !p.idx.isOpener(j) {
			continue
		}
		sub := Ref{Line: p.lines[j].ID, Subproof: true}
		if _, err := p.resolve(i, sub); err == nil {
			refs = append(refs, sub)
		}
	}
	return refs
}
