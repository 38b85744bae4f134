// Package rules implements the inference rules a proof line can be justified by.
//
// Rules are pure: a rule looks only at the formulas handed to it. Whether the
// cited lines may be cited at all is decided by the proof before a rule runs.
package rules

import (
	"github.com/gnoswap-labs/fitch/internal/expr"
)

// Kind identifies an inference rule. The set is closed.
type Kind int

const (
	None Kind = iota
	Premise
	Assumption
	Reiteration
	AndIntro
	AndElim
	OrIntro
	OrElim
	ImpliesIntro
	ImpliesElim
	NotIntro
	NotElim
	BottomIntro
	BottomElim
	IffIntro
	IffElim
	ModusTollens
	DisjunctiveSyllogism
	HypotheticalSyllogism
	ForallElim
	ExistsIntro
	ForallIntro
	ExistsElim
)

// Category groups rules the way rule pickers present them.
type Category int

const (
	Structural Category = iota
	Intro
	Elim
	Inference
)

func (c Category) String() string {
	switch c {
	case Structural:
		return "structural"
	case Intro:
		return "introduction"
	case Elim:
		return "elimination"
	case Inference:
		return "inference"
	default:
		return "?"
	}
}

// Subproof is a discharged subproof as seen from the citing line: the
// assumption that opened it and the last formula derived inside it.
type Subproof struct {
	Assumption expr.Expr
	Result     expr.Expr
}

type checkFunc func(c expr.Expr, ps []expr.Expr, ss []Subproof) error

type freshFunc func(c expr.Expr, ps []expr.Expr, ss []Subproof) string

type ruleSpec struct {
	id        string
	name      string
	category  Category
	premises  int // -1: citations are ignored
	subproofs int
	check     checkFunc
	// fresh returns the term the rule generalizes over, if any.
	fresh freshFunc
}

// table is indexed by Kind.
var table = [...]ruleSpec{
	None:                  {id: "", name: "no rule"},
	Premise:               {id: "premise", name: "Premise", category: Structural, premises: -1},
	Assumption:            {id: "assumption", name: "Assumption", category: Structural, premises: -1},
	Reiteration:           {id: "reiteration", name: "Reiteration", category: Structural, premises: 1, check: checkReiteration},
	AndIntro:              {id: "and-intro", name: "∧ Intro", category: Intro, premises: 2, check: checkAndIntro},
	AndElim:               {id: "and-elim", name: "∧ Elim", category: Elim, premises: 1, check: checkAndElim},
	OrIntro:               {id: "or-intro", name: "∨ Intro", category: Intro, premises: 1, check: checkOrIntro},
	OrElim:                {id: "or-elim", name: "∨ Elim", category: Elim, premises: 1, subproofs: 2, check: checkOrElim},
	ImpliesIntro:          {id: "implies-intro", name: "→ Intro", category: Intro, subproofs: 1, check: checkImpliesIntro},
	ImpliesElim:           {id: "implies-elim", name: "→ Elim", category: Elim, premises: 2, check: checkImpliesElim},
	NotIntro:              {id: "not-intro", name: "¬ Intro", category: Intro, subproofs: 1, check: checkNotIntro},
	NotElim:               {id: "not-elim", name: "¬ Elim", category: Elim, premises: 1, check: checkNotElim},
	BottomIntro:           {id: "bottom-intro", name: "⊥ Intro", category: Intro, premises: 2, check: checkBottomIntro},
	BottomElim:            {id: "bottom-elim", name: "⊥ Elim", category: Elim, premises: 1, check: checkBottomElim},
	IffIntro:              {id: "iff-intro", name: "↔ Intro", category: Intro, subproofs: 2, check: checkIffIntro},
	IffElim:               {id: "iff-elim", name: "↔ Elim", category: Elim, premises: 2, check: checkIffElim},
	ModusTollens:          {id: "modus-tollens", name: "Modus Tollens", category: Inference, premises: 2, check: checkModusTollens},
	DisjunctiveSyllogism:  {id: "disjunctive-syllogism", name: "Disjunctive Syllogism", category: Inference, premises: 2, check: checkDisjunctiveSyllogism},
	HypotheticalSyllogism: {id: "hypothetical-syllogism", name: "Hypothetical Syllogism", category: Inference, premises: 2, check: checkHypotheticalSyllogism},
	ForallElim:            {id: "forall-elim", name: "∀ Elim", category: Elim, premises: 1, check: checkForallElim},
	ExistsIntro:           {id: "exists-intro", name: "∃ Intro", category: Intro, premises: 1, check: checkExistsIntro},
	ForallIntro:           {id: "forall-intro", name: "∀ Intro", category: Intro, premises: 1, check: checkForallIntro, fresh: forallIntroTerm},
	ExistsElim:            {id: "exists-elim", name: "∃ Elim", category: Elim, premises: 1, subproofs: 1, check: checkExistsElim, fresh: existsElimTerm},
}

var byID = func() map[string]Kind {
	m := make(map[string]Kind, len(table))
	for k := range table {
		if table[k].id != "" {
			m[table[k].id] = Kind(k)
		}
	}
	return m
}()

// Lookup returns the rule with the given stable identifier.
func Lookup(id string) (Kind, bool) {
	k, ok := byID[id]
	return k, ok
}

// All returns every rule except None, in declaration order.
func All() []Kind {
	kinds := make([]Kind, 0, len(table)-1)
	for k := Premise; int(k) < len(table); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) valid() bool {
	return k > None && int(k) < len(table)
}

// ID returns the stable identifier used in documents and configuration.
func (k Kind) ID() string {
	if !k.valid() {
		return ""
	}
	return table[k].id
}

// Name returns the display name.
func (k Kind) Name() string {
	if k == None || !k.valid() {
		return "no rule"
	}
	return table[k].name
}

func (k Kind) String() string {
	if !k.valid() {
		return "none"
	}
	return table[k].id
}

// Category returns the rule's category.
func (k Kind) Category() Category {
	if !k.valid() {
		return Structural
	}
	return table[k].category
}

// Arity returns how many single-line premises and subproofs the rule cites.
// A negative premise count means the rule ignores citations.
func (k Kind) Arity() (premises, subproofs int) {
	if !k.valid() {
		return 0, 0
	}
	return table[k].premises, table[k].subproofs
}

// Verify checks that conclusion follows from the cited premises and
// subproofs under rule k. Premises and subproofs are given in citation order.
func (k Kind) Verify(conclusion expr.Expr, premises []expr.Expr, subproofs []Subproof) error {
	if !k.valid() {
		return &Violation{Rule: k, Kind: Shape, Msg: "no rule selected"}
	}
	spec := table[k]
	if spec.premises < 0 {
		return nil
	}
	if len(premises) != spec.premises {
		return shapef(k, "expects %s, got %d", plural(spec.premises, "premise line"), len(premises))
	}
	if len(subproofs) != spec.subproofs {
		return shapef(k, "expects %s, got %d", plural(spec.subproofs, "subproof"), len(subproofs))
	}
	if err := spec.check(conclusion, premises, subproofs); err != nil {
		if v, ok := err.(*Violation); ok {
			v.Rule = k
		}
		return err
	}
	return nil
}

// FreshTerm returns the term a quantifier rule generalizes over on a line
// that Verify accepted. The term must not occur free in any assumption the
// line depends on; the rule cannot see those, so the caller checks them.
// It returns "" for rules without such a side condition.
func (k Kind) FreshTerm(conclusion expr.Expr, premises []expr.Expr, subproofs []Subproof) string {
	if !k.valid() || table[k].fresh == nil {
		return ""
	}
	return table[k].fresh(conclusion, premises, subproofs)
}
