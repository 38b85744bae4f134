/*
Package expr implements the formula language checked by the proof engine.

# Syntax

Formulas are built from predicates, connectives and quantifiers:

	P            nullary predicate (a proposition letter)
	Loves(a, b)  predicate applied to individual terms
	⊥  ⊤         contradiction and tautology
	¬A           negation
	A ∧ B        conjunction
	A ∨ B        disjunction
	A → B        implication (right associative)
	A ↔ B        biconditional
	∀x A  ∃x A   quantifiers

ASCII spellings are accepted as well: "&", "^" and "/\" for ∧, "|" and "\/" for ∨,
"~" and "!" for ¬, "->" for →, "<->" for ↔, "_|_" for ⊥, and the keywords
"forall" and "exists".

Binding strength from loosest to tightest is ↔, →, ∨, ∧, then the prefix
operators (¬ and the quantifiers), which apply to the following unary formula.

# Rendering

Every Expr has a canonical rendering returned by String. The rendering uses the
Unicode operators and parenthesizes every binary operand that is itself binary,
so parsing the rendering yields a structurally equal formula:

	e, _ := Parse("p & q -> r")
	e.String() // "(p ∧ q) → r"

Structural equality is decided by Equal; substitution of individual terms for
free variables is provided by Subst for the quantifier rules.
*/
package expr
