package proof

import (
	"github.com/gnoswap-labs/fitch/internal/pool"
)

// Goal is a formula the proof is meant to establish at top level.
type Goal struct {
	Text   string
	Handle pool.Handle
}

// GoalStatus reports whether a goal has been reached. Line is the index of
// the top-level line that establishes it, or -1.
type GoalStatus struct {
	Goal Goal
	Met  bool
	Line int
}

// AddGoal parses text and records it as a goal.
func (p *Proof) AddGoal(text string) error {
	h, err := p.pool.Intern(text)
	if err != nil {
		return err
	}
	p.goals = append(p.goals, Goal{Text: p.pool.Render(h), Handle: h})
	return nil
}

// Goals returns the recorded goals in the order they were added.
func (p *Proof) Goals() []Goal {
	out := make([]Goal, len(p.goals))
	copy(out, p.goals)
	return out
}

// VerifyGoals checks each goal. A goal is met by a top-level line with the
// same formula that verifies, as does every line it depends on.
func (p *Proof) VerifyGoals() []GoalStatus {
	memo := make(map[int]bool)
	statuses := make([]GoalStatus, 0, len(p.goals))
	for _, g := range p.goals {
		st := GoalStatus{Goal: g, Line: -1}
		for i, l := range p.lines {
			if l.Level == 0 && l.Parsed && l.Handle == g.Handle && p.sound(i, memo) {
				st.Met, st.Line = true, i
				break
			}
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// sound reports whether line i and everything it transitively cites
// verifies. Citations always point backwards, so the recursion terminates.
func (p *Proof) sound(i int, memo map[int]bool) bool {
	if ok, seen := memo[i]; seen {
		return ok
	}
	memo[i] = false
	ok := p.VerifyLine(i) == nil
	for _, ref := range p.lines[i].Refs {
		if !ok {
			break
		}
		j := p.idx.pos[ref.Line]
		if !ref.Subproof {
			ok = p.sound(j, memo)
			continue
		}
		for k, end := j, p.idx.subproofEnd(j); k <= end && ok; k++ {
			ok = p.sound(k, memo)
		}
	}
	memo[i] = ok
	return ok
}
