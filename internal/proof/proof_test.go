package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/fitch/internal/rules"
)

type row struct {
	level      int
	assumption bool
	text       string
	rule       rules.Kind
	lines      []int // cited line indexes
	subproofs  []int // cited subproof opener indexes
}

func build(t *testing.T, rows ...row) *Proof {
	t.Helper()
	p := New()
	for i, r := range rows {
		require.NoError(t, p.InsertLine(i, r.assumption, r.level), "row %d", i)
		require.NoError(t, p.SetLineText(i, r.text))
		if r.assumption {
			continue
		}
		if r.rule != rules.None {
			require.NoError(t, p.SetRule(i, r.rule))
		}
		var refs []Ref
		for _, j := range r.lines {
			refs = append(refs, p.LineRef(j))
		}
		for _, j := range r.subproofs {
			refs = append(refs, p.SubproofRef(j))
		}
		require.NoError(t, p.SetRefs(i, refs...))
	}
	return p
}

func TestInsertRejectsIllegalNesting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		at         int
		assumption bool
		level      int
	}{
		{name: "two levels deeper", at: 1, assumption: true, level: 2},
		{name: "deeper derived line", at: 1, assumption: false, level: 1},
		{name: "negative level", at: 1, assumption: false, level: -1},
		{name: "position past end", at: 5, assumption: false, level: 0},
		{name: "negative position", at: -1, assumption: false, level: 0},
		{name: "orphans the next line", at: 2, assumption: false, level: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := build(t,
				row{level: 0, assumption: true, text: "P"},
				row{level: 1, assumption: true, text: "Q"},
				row{level: 1, text: "P", rule: rules.Reiteration, lines: []int{0}},
			)
			before := p.DisplayString()

			err := p.InsertLine(tt.at, tt.assumption, tt.level)
			var serr *StructuralError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "insert", serr.Op)
			assert.Equal(t, before, p.DisplayString(), "rejected insert must not change the proof")
			assert.Equal(t, 3, p.Len())
		})
	}
}

func TestInsertOpensSiblingSubproof(t *testing.T) {
	t.Parallel()

	p := build(t,
		row{level: 1, assumption: true, text: "A"},
		row{level: 1, assumption: true, text: "B"},
		row{level: 1, text: "A", rule: rules.Reiteration, lines: []int{0}},
	)

	err := p.VerifyLine(2)
	var verr *VisibilityError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Target)

	first, last, ok := p.SubproofSpan(0)
	require.True(t, ok)
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, last)

	first, last, ok = p.SubproofSpan(1)
	require.True(t, ok)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, last)
}

func TestCursor(t *testing.T) {
	t.Parallel()

	p := New()
	assert.Equal(t, 0, p.Cursor())

	require.NoError(t, p.InsertAtCursor(true, 0))
	require.NoError(t, p.SetLineText(0, "A"))
	require.NoError(t, p.InsertAtCursor(false, 0))
	require.NoError(t, p.SetLineText(1, "B"))
	assert.Equal(t, 2, p.Cursor())

	require.NoError(t, p.MoveCursor(0))
	require.NoError(t, p.InsertAtCursor(true, 0))
	require.NoError(t, p.SetLineText(1, "C"))

	assert.Equal(t, "A", p.LineText(0))
	assert.Equal(t, "C", p.LineText(1))
	assert.Equal(t, "B", p.LineText(2))
	assert.Equal(t, 2, p.Cursor())

	require.NoError(t, p.MoveCursor(-1))
	assert.Equal(t, 0, p.Cursor())

	var serr *StructuralError
	require.ErrorAs(t, p.MoveCursor(3), &serr)
	require.ErrorAs(t, p.MoveCursor(-2), &serr)
	assert.Equal(t, 0, p.Cursor())

	require.NoError(t, p.MoveCursor(2))
	require.NoError(t, p.DeleteLine(0))
	assert.Equal(t, 2, p.Cursor())
}

func TestDeleteDropsCitations(t *testing.T) {
	t.Parallel()

	p := build(t,
		row{level: 0, assumption: true, text: "A & B"},
		row{level: 0, assumption: true, text: "C"},
		row{level: 0, text: "A & B", rule: rules.Reiteration, lines: []int{0}},
		row{level: 0, text: "C", rule: rules.Reiteration, lines: []int{1}},
	)
	kept := p.LineRef(1)

	require.NoError(t, p.DeleteLine(0))
	require.Equal(t, 3, p.Len())

	l, ok := p.Line(1)
	require.True(t, ok)
	assert.Empty(t, l.Refs)

	l, ok = p.Line(2)
	require.True(t, ok)
	assert.Equal(t, []Ref{kept}, l.Refs)

	i, ok := p.IndexOf(kept.Line)
	require.True(t, ok)
	assert.Equal(t, 0, i)

	var shape *rules.Violation
	require.ErrorAs(t, p.VerifyLine(1), &shape)
	assert.Equal(t, rules.Shape, shape.Kind)
	assert.NoError(t, p.VerifyLine(2))
}

func TestDeleteRejectsOrphanedLines(t *testing.T) {
	t.Parallel()

	p := build(t,
		row{level: 1, assumption: true, text: "A"},
		row{level: 1, text: "A", rule: rules.Reiteration, lines: []int{0}},
	)

	var serr *StructuralError
	require.ErrorAs(t, p.DeleteLine(0), &serr)
	assert.Equal(t, "delete", serr.Op)
	assert.Equal(t, 2, p.Len())

	require.ErrorAs(t, p.DeleteLine(2), &serr)
	require.NoError(t, p.DeleteLine(1))
	require.NoError(t, p.DeleteLine(0))
	assert.Zero(t, p.Len())
}

func TestSetLineTextKeepsRawTextOnFailure(t *testing.T) {
	t.Parallel()

	p := build(t, row{level: 0, assumption: true, text: "P &"})
	l, _ := p.Line(0)
	assert.False(t, l.Parsed)
	assert.Error(t, l.ParseErr)
	assert.Equal(t, "P &", p.LineText(0))

	require.NoError(t, p.SetLineText(0, "(P & Q)"))
	l, _ = p.Line(0)
	assert.True(t, l.Parsed)
	assert.NoError(t, l.ParseErr)
	assert.Equal(t, "P ∧ Q", p.LineText(0))
	assert.Equal(t, "(P & Q)", l.Text)
}

func TestEditsOnAssumptionLines(t *testing.T) {
	t.Parallel()

	p := build(t,
		row{level: 0, assumption: true, text: "A"},
		row{level: 0, text: "A"},
	)
	var serr *StructuralError
	require.ErrorAs(t, p.SetRule(0, rules.Reiteration), &serr)
	require.ErrorAs(t, p.SetRefs(0, p.LineRef(1)), &serr)
	require.ErrorAs(t, p.ToggleRef(0, p.LineRef(1)), &serr)
	require.ErrorAs(t, p.SetRule(1, rules.Premise), &serr)
	require.ErrorAs(t, p.SetRule(7, rules.Reiteration), &serr)

	l, _ := p.Line(0)
	assert.Equal(t, rules.Premise, l.Rule)
	assert.True(t, l.Premise())
}

func TestToggleRef(t *testing.T) {
	t.Parallel()

	p := build(t,
		row{level: 0, assumption: true, text: "A"},
		row{level: 0, assumption: true, text: "B"},
		row{level: 0, text: "A ∧ B", rule: rules.AndIntro},
	)
	require.NoError(t, p.ToggleRef(2, p.LineRef(1)))
	require.NoError(t, p.ToggleRef(2, p.LineRef(0)))
	assert.NoError(t, p.VerifyLine(2))

	require.NoError(t, p.ToggleRef(2, p.LineRef(1)))
	l, _ := p.Line(2)
	assert.Equal(t, []Ref{p.LineRef(0)}, l.Refs)
}
