package internal

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/fitch/internal/document"
	"github.com/gnoswap-labs/fitch/internal/proof"
	"github.com/gnoswap-labs/fitch/internal/rules"
	tt "github.com/gnoswap-labs/fitch/internal/types"
)

/*
* Each check the engine runs over a loaded proof is a separate struct.
 */

// ProofCheck defines the interface for all checks.
type ProofCheck interface {
	// Check runs over the loaded document and returns the issues it found.
	Check(filename string, doc *document.Document, p *proof.Proof) []tt.Issue

	// Name returns the name of the check, which is also the Rule of its issues.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

type severityHolder struct {
	severity tt.Severity
}

func (h *severityHolder) Severity() tt.Severity     { return h.severity }
func (h *severityHolder) SetSeverity(s tt.Severity) { h.severity = s }

// LineCheck verifies every derived line.
type LineCheck struct {
	severityHolder
}

func NewLineCheck() ProofCheck {
	return &LineCheck{severityHolder{tt.SeverityError}}
}

func (c *LineCheck) Name() string { return "verify-line" }

func (c *LineCheck) Check(filename string, _ *document.Document, p *proof.Proof) []tt.Issue {
	var issues []tt.Issue
	for i := 0; i < p.Len(); i++ {
		err := p.VerifyLine(i)
		if err == nil {
			continue
		}
		issues = append(issues, tt.Issue{
			Rule:     c.Name(),
			Category: proof.Category(err),
			Filename: filename,
			Line:     i + 1,
			Message:  err.Error(),
			Snippet:  p.Row(i),
			Note:     lineNote(err),
			Severity: c.severity,
		})
	}
	return issues
}

func lineNote(err error) string {
	var (
		verr *proof.VisibilityError
		merr *proof.MissingRuleError
	)
	switch {
	case errors.As(err, &verr):
		return "a line can cite earlier lines of its own subproof or of an enclosing one, and whole subproofs that have closed"
	case errors.As(err, &merr):
		return "run `fitch rules` to list the available rules"
	}
	return ""
}

// DisallowedRuleCheck reports lines justified by a rule the configuration
// turned off.
type DisallowedRuleCheck struct {
	severityHolder
	forbidden map[rules.Kind]bool
}

func NewDisallowedRuleCheck() ProofCheck {
	return &DisallowedRuleCheck{
		severityHolder: severityHolder{tt.SeverityError},
		forbidden:      make(map[rules.Kind]bool),
	}
}

func (c *DisallowedRuleCheck) Name() string { return "disallowed-rule" }

func (c *DisallowedRuleCheck) Forbid(k rules.Kind) { c.forbidden[k] = true }

func (c *DisallowedRuleCheck) Check(filename string, _ *document.Document, p *proof.Proof) []tt.Issue {
	if len(c.forbidden) == 0 {
		return nil
	}
	var issues []tt.Issue
	for i := 0; i < p.Len(); i++ {
		l, _ := p.Line(i)
		if l.Assumption || !c.forbidden[l.Rule] {
			continue
		}
		issues = append(issues, tt.Issue{
			Rule:     c.Name(),
			Category: "config",
			Filename: filename,
			Line:     i + 1,
			Message:  fmt.Sprintf("%s is not allowed in this proof", l.Rule.Name()),
			Snippet:  p.Row(i),
			Severity: c.severity,
		})
	}
	return issues
}

// GoalCheck reports goals no sound top-level line establishes.
type GoalCheck struct {
	severityHolder
}

func NewGoalCheck() ProofCheck {
	return &GoalCheck{severityHolder{tt.SeverityError}}
}

func (c *GoalCheck) Name() string { return "goal" }

func (c *GoalCheck) Check(filename string, _ *document.Document, p *proof.Proof) []tt.Issue {
	var issues []tt.Issue
	for _, st := range p.VerifyGoals() {
		if st.Met {
			continue
		}
		issues = append(issues, tt.Issue{
			Rule:     c.Name(),
			Category: "goal",
			Filename: filename,
			Message:  fmt.Sprintf("goal %s is not proved", st.Goal.Text),
			Note:     "a goal is met by a top-level line with the same formula whose whole derivation verifies",
			Severity: c.severity,
		})
	}
	return issues
}

// IntegrityCheck reports documents whose hash does not match their contents.
type IntegrityCheck struct {
	severityHolder
}

func NewIntegrityCheck() ProofCheck {
	return &IntegrityCheck{severityHolder{tt.SeverityWarning}}
}

func (c *IntegrityCheck) Name() string { return "integrity" }

func (c *IntegrityCheck) Check(filename string, doc *document.Document, _ *proof.Proof) []tt.Issue {
	if doc == nil || doc.Verified {
		return nil
	}
	return []tt.Issue{{
		Rule:     c.Name(),
		Category: "document",
		Filename: filename,
		Message:  "the document hash does not match its contents",
		Note:     fmt.Sprintf("authorship is recorded as %s", document.UnknownAuthor),
		Severity: c.severity,
	}}
}
