// Package proof maintains a Fitch-style lined proof: an ordered sequence of
// lines whose nesting levels describe subproofs, together with the
// expression pool the lines are interned into.
//
// Every edit re-validates the nesting. An edit that would leave the proof
// with an impossible topology is rejected with a *StructuralError and has no
// effect; nesting is never clamped. Verification is on demand and covers a
// single line per call.
package proof

import (
	"slices"

	"github.com/gnoswap-labs/fitch/internal/pool"
	"github.com/gnoswap-labs/fitch/internal/rules"
)

// LineID is the stable identity of a line. It survives inserts and deletes
// that move the line to another index and is never reused within a proof.
type LineID uint64

// Ref is one citation of a derived line. With Subproof set it names the
// subproof opened by the cited assumption line.
type Ref struct {
	Line     LineID
	Subproof bool
}

// Line is one row of a proof.
type Line struct {
	ID         LineID
	Level      int
	Assumption bool
	Text       string
	Handle     pool.Handle
	Parsed     bool
	ParseErr   error
	Rule       rules.Kind
	Refs       []Ref
}

// Premise reports whether the line is a top-level assumption.
func (l *Line) Premise() bool {
	return l.Assumption && l.Level == 0
}

// Proof is a lined proof. It is not safe for concurrent use.
type Proof struct {
	pool   *pool.Pool
	lines  []*Line
	idx    scopeIndex
	nextID LineID
	cursor int
	goals  []Goal
}

// New creates an empty proof with its own expression pool.
func New() *Proof {
	p := &Proof{pool: pool.New(), nextID: 1}
	p.idx, _ = buildIndex(nil)
	return p
}

// Pool returns the pool the proof's formulas are interned in.
func (p *Proof) Pool() *pool.Pool { return p.pool }

// Len returns the number of lines.
func (p *Proof) Len() int { return len(p.lines) }

// Cursor returns the position the next InsertAtCursor inserts at.
func (p *Proof) Cursor() int { return p.cursor }

// Line returns a copy of the line at index i.
func (p *Proof) Line(i int) (Line, bool) {
	if i < 0 || i >= len(p.lines) {
		return Line{}, false
	}
	l := *p.lines[i]
	l.Refs = slices.Clone(l.Refs)
	return l, true
}

// IndexOf returns the current index of the line with the given identity.
func (p *Proof) IndexOf(id LineID) (int, bool) {
	i, ok := p.idx.pos[id]
	return i, ok
}

// LineRef returns a citation of the line at index i.
func (p *Proof) LineRef(i int) Ref {
	if i < 0 || i >= len(p.lines) {
		return Ref{}
	}
	return Ref{Line: p.lines[i].ID}
}

// SubproofRef returns a citation of the subproof opened at index i.
func (p *Proof) SubproofRef(i int) Ref {
	if i < 0 || i >= len(p.lines) {
		return Ref{Subproof: true}
	}
	return Ref{Line: p.lines[i].ID, Subproof: true}
}

// SubproofSpan returns the first and last index of the subproof opened at
// index i. ok is false when line i does not open a subproof.
func (p *Proof) SubproofSpan(i int) (first, last int, ok bool) {
	if i < 0 || i >= len(p.lines) || !p.idx.isOpener(i) {
		return 0, 0, false
	}
	return i, p.idx.subproofEnd(i), true
}

// InsertLine inserts an empty line at index at with the given nesting level.
// A non-assumption line gets no rule. The cursor moves past the new line.
func (p *Proof) InsertLine(at int, assumption bool, level int) error {
	const op = "insert"
	if at < 0 || at > len(p.lines) {
		return structural(op, at, "position out of range [0, %d]", len(p.lines))
	}

	l := &Line{ID: p.nextID, Level: level, Assumption: assumption}
	if assumption {
		l.Rule = rules.Premise
		if level > 0 {
			l.Rule = rules.Assumption
		}
	}

	lines := slices.Insert(slices.Clone(p.lines), at, l)
	idx, err := buildIndex(lines)
	if err != nil {
		return structural(op, at, "%v", err)
	}

	p.nextID++
	p.lines, p.idx = lines, idx
	p.cursor = at + 1
	return nil
}

// InsertAtCursor inserts a line at the cursor.
func (p *Proof) InsertAtCursor(assumption bool, level int) error {
	return p.InsertLine(p.cursor, assumption, level)
}

// MoveCursor places the cursor immediately after line i. Index -1 places it
// before the first line.
func (p *Proof) MoveCursor(i int) error {
	if i < -1 || i >= len(p.lines) {
		return structural("move cursor", i, "no such line")
	}
	p.cursor = i + 1
	return nil
}

// DeleteLine removes line i and every citation of it.
func (p *Proof) DeleteLine(i int) error {
	const op = "delete"
	if i < 0 || i >= len(p.lines) {
		return structural(op, i, "no such line")
	}

	lines := slices.Delete(slices.Clone(p.lines), i, i+1)
	idx, err := buildIndex(lines)
	if err != nil {
		return structural(op, i, "%v", err)
	}

	gone := p.lines[i].ID
	for _, l := range lines {
		l.Refs = slices.DeleteFunc(l.Refs, func(r Ref) bool { return r.Line == gone })
	}
	p.lines, p.idx = lines, idx
	if p.cursor > i {
		p.cursor--
	}
	return nil
}

// SetLineText replaces the text of line i and re-interns it. A parse failure
// is recorded on the line; the text is kept verbatim either way.
func (p *Proof) SetLineText(i int, text string) error {
	l, err := p.line("set text", i)
	if err != nil {
		return err
	}
	l.Text = text
	l.Handle, l.Parsed, l.ParseErr = 0, false, nil
	if text == "" {
		return nil
	}
	h, perr := p.pool.Intern(text)
	if perr != nil {
		l.ParseErr = perr
		return nil
	}
	l.Handle, l.Parsed = h, true
	return nil
}

// SetRule sets the rule justifying derived line i.
func (p *Proof) SetRule(i int, k rules.Kind) error {
	const op = "set rule"
	l, err := p.line(op, i)
	if err != nil {
		return err
	}
	if l.Assumption {
		return structural(op, i, "assumption lines are not justified by a rule")
	}
	if k == rules.Premise || k == rules.Assumption {
		return structural(op, i, "rule %s is reserved for assumption lines", k)
	}
	l.Rule = k
	return nil
}

// SetRefs replaces the citations of derived line i. Whether the citations
// are visible is only checked by VerifyLine.
func (p *Proof) SetRefs(i int, refs ...Ref) error {
	const op = "set refs"
	l, err := p.line(op, i)
	if err != nil {
		return err
	}
	if l.Assumption && len(refs) > 0 {
		return structural(op, i, "assumption lines cite nothing")
	}
	l.Refs = slices.Clone(refs)
	return nil
}

// ToggleRef adds ref to line i's citations, or removes it if present.
func (p *Proof) ToggleRef(i int, ref Ref) error {
	const op = "toggle ref"
	l, err := p.line(op, i)
	if err != nil {
		return err
	}
	if l.Assumption {
		return structural(op, i, "assumption lines cite nothing")
	}
	if j := slices.Index(l.Refs, ref); j >= 0 {
		l.Refs = slices.Delete(l.Refs, j, j+1)
		return nil
	}
	l.Refs = append(l.Refs, ref)
	return nil
}

func (p *Proof) line(op string, i int) (*Line, error) {
	if i < 0 || i >= len(p.lines) {
		return nil, structural(op, i, "no such line")
	}
	return p.lines[i], nil
}
