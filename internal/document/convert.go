package document

import (
	"strconv"

	"github.com/gnoswap-labs/fitch/internal/proof"
	"github.com/gnoswap-labs/fitch/internal/rules"
)

// FromProof builds the document for p. Line text is stored in canonical
// form when it parsed and verbatim otherwise, base64 encoded when XML cannot
// carry it. Leading top-level assumptions
// go to the premises section.
func FromProof(p *proof.Proof, authors []string) *Document {
	doc := &Document{Version: Version, Authors: authors}

	premises := true
	for i := 0; i < p.Len(); i++ {
		l, _ := p.Line(i)
		rec := LineRecord{
			Num:        i,
			Indent:     l.Level,
			Assumption: l.Assumption,
			Expr:       NewExprRecord(p.LineText(i)),
		}
		if !l.Assumption && l.Rule != rules.None {
			rec.Rule = l.Rule.ID()
		}
		for _, ref := range l.Refs {
			j, ok := p.IndexOf(ref.Line)
			if !ok {
				continue
			}
			rec.Premises = append(rec.Premises, PremiseRecord{
				Subproof: strconv.FormatBool(ref.Subproof),
				Num:      strconv.Itoa(j),
			})
		}

		premises = premises && l.Premise()
		if premises {
			doc.Proof.Premises.Lines = append(doc.Proof.Premises.Lines, rec)
		} else {
			doc.Proof.Lines.Lines = append(doc.Proof.Lines.Lines, rec)
		}
	}

	for i, g := range p.Goals() {
		doc.Proof.Goals.Goals = append(doc.Proof.Goals.Goals, GoalRecord{Num: i, Text: g.Text})
	}
	return doc
}

// Build rebuilds the proof described by d into a fresh pool. Any structural
// problem fails the whole load with a *FormatError.
//
// A citation without a subproof attribute names a subproof when the cited
// line opens a subproof that is already closed at the citing line.
func (d *Document) Build() (*proof.Proof, error) {
	p := proof.New()

	for i, rec := range d.Records() {
		if rec.Num != i {
			return nil, formatErr(nil, "line %d is numbered %d", i, rec.Num)
		}
		if i < len(d.Proof.Premises.Lines) && (!rec.Assumption || rec.Indent != 0) {
			return nil, formatErr(nil, "line %d: the premises section holds only top-level assumptions", i)
		}
		if err := p.InsertLine(i, rec.Assumption, rec.Indent); err != nil {
			return nil, formatErr(err, "line %d", i)
		}
		text, err := rec.Expr.Value()
		if err != nil {
			return nil, formatErr(err, "line %d", i)
		}
		if err := p.SetLineText(i, text); err != nil {
			return nil, formatErr(err, "line %d", i)
		}

		if rec.Assumption {
			if len(rec.Premises) > 0 || rec.Rule != "" {
				return nil, formatErr(nil, "line %d: an assumption has no rule or premises", i)
			}
			continue
		}
		if rec.Rule != "" {
			k, ok := rules.Lookup(rec.Rule)
			if !ok {
				return nil, formatErr(nil, "line %d: unknown rule %q", i, rec.Rule)
			}
			if err := p.SetRule(i, k); err != nil {
				return nil, formatErr(err, "line %d", i)
			}
		}

		refs := make([]proof.Ref, 0, len(rec.Premises))
		for _, pr := range rec.Premises {
			ref, err := premiseRef(p, i, pr)
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
		}
		if err := p.SetRefs(i, refs...); err != nil {
			return nil, formatErr(err, "line %d", i)
		}
	}

	for i, g := range d.Proof.Goals.Goals {
		if g.Num != i {
			return nil, formatErr(nil, "goal %d is numbered %d", i, g.Num)
		}
		if err := p.AddGoal(g.Text); err != nil {
			return nil, formatErr(err, "goal %d", i)
		}
	}
	return p, nil
}

func premiseRef(p *proof.Proof, i int, pr PremiseRecord) (proof.Ref, error) {
	n, err := strconv.Atoi(pr.Num)
	if err != nil {
		return proof.Ref{}, formatErr(err, "line %d: bad premise %q", i, pr.Num)
	}
	if n < 0 || n >= i {
		return proof.Ref{}, formatErr(nil, "line %d: premise %d does not come before it", i, n)
	}

	var subproof bool
	if pr.Subproof == "" {
		_, last, ok := p.SubproofSpan(n)
		subproof = ok && last < i
	} else if subproof, err = strconv.ParseBool(pr.Subproof); err != nil {
		return proof.Ref{}, formatErr(err, "line %d: bad subproof flag", i)
	}

	if subproof {
		return p.SubproofRef(n), nil
	}
	return p.LineRef(n), nil
}
