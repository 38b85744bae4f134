package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRendering(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"proposition", "P", "P"},
		{"ascii and", "P & Q", "P ∧ Q"},
		{"caret and", "P ^ Q", "P ∧ Q"},
		{"slash and", `P /\ Q`, "P ∧ Q"},
		{"ascii or", "P | Q", "P ∨ Q"},
		{"slash or", `P \/ Q`, "P ∨ Q"},
		{"tilde not", "~P", "¬P"},
		{"bang not", "!!P", "¬¬P"},
		{"arrow", "P -> Q", "P → Q"},
		{"biconditional", "P <-> Q", "P ↔ Q"},
		{"bottom", "_|_", "⊥"},
		{"unicode", "¬(P ∧ Q) ↔ (¬P ∨ ¬Q)", "¬(P ∧ Q) ↔ (¬P ∨ ¬Q)"},
		{"and binds tighter than or", "P | Q & R", "P ∨ (Q ∧ R)"},
		{"or binds tighter than implies", "P | Q -> R", "(P ∨ Q) → R"},
		{"implies is right associative", "P -> Q -> R", "P → (Q → R)"},
		{"and is left associative", "P & Q & R", "(P ∧ Q) ∧ R"},
		{"explicit grouping", "P -> (Q -> R)", "P → (Q → R)"},
		{"redundant parens", "((P))", "P"},
		{"predicate", "Loves(a,b)", "Loves(a, b)"},
		{"forall keyword", "forall x P(x)", "∀x P(x)"},
		{"quantifier scope", "∀x (P(x) → Q(x))", "∀x (P(x) → Q(x))"},
		{"quantifier binds tightly", "∀x P(x) → Q", "∀x P(x) → Q"},
		{"nested quantifiers", "exists y forall x L(x, y)", "∃y ∀x L(x, y)"},
		{"negated quantifier", "~forall x P(x)", "¬∀x P(x)"},
		{"whitespace", "  P\t&\nQ  ", "P ∧ Q"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, e.String())
		})
	}
}

func TestRenderingIsFixedPoint(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"P & Q -> R | ~S",
		"(A <-> B) <-> C",
		"A <-> (B <-> C)",
		"forall x (P(x) -> exists y R(x, y))",
		"~~(P | _|_)",
		"((A -> B) -> A) -> A",
	}

	for _, input := range inputs {
		first, err := Parse(input)
		require.NoError(t, err, input)
		second, err := Parse(first.String())
		require.NoError(t, err, first.String())

		assert.True(t, Equal(first, second), "%q reparsed differently", first.String())
		assert.Equal(t, first.String(), second.String())
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		pos   int
	}{
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"dangling operator", "P &", 3},
		{"unclosed paren", "(P | Q", 6},
		{"stray close", "P)", 1},
		{"unknown character", "P # Q", 2},
		{"quantifier without variable", "forall (P)", 7},
		{"bad argument list", "P(a,)", 4},
		{"two atoms", "P Q", 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.input)
			require.Error(t, err)

			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, tt.pos, syn.Pos)
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()
	assert.True(t, Equal(MustParse("P & Q"), And(P("P"), P("Q"))))
	assert.True(t, Equal(MustParse("R(a, b)"), P("R", "a", "b")))
	assert.False(t, Equal(MustParse("P & Q"), MustParse("Q & P")))
	assert.False(t, Equal(MustParse("P & Q"), MustParse("P | Q")))
	assert.False(t, Equal(MustParse("R(a, b)"), MustParse("R(b, a)")))
	assert.False(t, Equal(MustParse("forall x P(x)"), MustParse("forall y P(y)")))
	assert.False(t, Equal(MustParse("forall x P(x)"), MustParse("exists x P(x)")))
	assert.True(t, Equal(Bottom{}, MustParse("⊥")))
	assert.False(t, Equal(Bottom{}, Top{}))
}

func TestSubst(t *testing.T) {
	t.Parallel()
	body := MustParse("P(x) & forall x Q(x) & R(x, y)")
	got := Subst(body, "x", "a")
	assert.Equal(t, "(P(a) ∧ ∀x Q(x)) ∧ R(a, y)", got.String())

	assert.True(t, FreeIn(body, "x"))
	assert.True(t, FreeIn(body, "y"))
	assert.False(t, FreeIn(MustParse("forall x P(x)"), "x"))
}

func TestInstance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		body   string
		target string
		term   string
		ok     bool
	}{
		{"simple", "P(x)", "P(a)", "a", true},
		{"consistent term", "R(x, x)", "R(a, a)", "a", true},
		{"inconsistent term", "R(x, x)", "R(a, b)", "", false},
		{"identity instance", "P(x)", "P(x)", "x", true},
		{"variable not free", "Q", "Q", "", true},
		{"shape differs", "P(x) & Q(x)", "P(a) | Q(a)", "", false},
		{"shadowed occurrence kept", "P(x) & forall x Q(x)", "P(a) & forall x Q(x)", "a", true},
		{"shadowed occurrence substituted", "P(x) & forall x Q(x)", "P(a) & forall x Q(a)", "", false},
		{"capture rejected", "exists y L(x, y)", "exists y L(y, y)", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			term, ok := Instance(MustParse(tt.body), "x", MustParse(tt.target))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.term, term)
		})
	}
}
