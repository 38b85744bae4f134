package proof

import (
	"fmt"
	"strconv"
	"strings"
)

// DisplayString renders the proof one line per row:
//
//	 1 | A ∧ B  [premise]
//	 2 | | C  [assumption]
//	 3 | | A  [and-elim 1]
//	 4 | C → A  [implies-intro 2-3]
//
// Parsed lines show their canonical formula, others their raw text. The
// output depends only on the proof's content.
func (p *Proof) DisplayString() string {
	var sb strings.Builder
	for i := range p.lines {
		sb.WriteString(p.row(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Row renders line i the way DisplayString does.
func (p *Proof) Row(i int) string {
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	return p.row(i)
}

func (p *Proof) row(i int) string {
	l := p.lines[i]
	width := max(len(strconv.Itoa(len(p.lines))), 2)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%*d | ", width, i+1)
	sb.WriteString(strings.Repeat("| ", l.Level))
	sb.WriteString(p.LineText(i))
	sb.WriteString("  [")
	switch {
	case l.Premise():
		sb.WriteString("premise")
	case l.Assumption:
		sb.WriteString("assumption")
	default:
		sb.WriteString(l.Rule.String())
		for n, ref := range l.Refs {
			if n == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(", ")
			}
			sb.WriteString(p.refString(ref))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// LineText returns the canonical rendering of line i when it parsed and its
// raw text otherwise.
func (p *Proof) LineText(i int) string {
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	l := p.lines[i]
	if l.Parsed {
		return p.pool.Render(l.Handle)
	}
	return l.Text
}

func (p *Proof) refString(ref Ref) string {
	j, ok := p.idx.pos[ref.Line]
	if !ok {
		return "?"
	}
	if ref.Subproof && p.idx.isOpener(j) {
		return fmt.Sprintf("%d-%d", j+1, p.idx.subproofEnd(j)+1)
	}
	return strconv.Itoa(j + 1)
}
