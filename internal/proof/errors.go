package proof

import (
	"errors"
	"fmt"

	"github.com/gnoswap-labs/fitch/internal/rules"
)

// StructuralError is returned by an edit that would break the nesting rules
// or that addresses a line which does not exist. The proof is left as it was.
type StructuralError struct {
	Op    string
	Index int
	Msg   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s at %d: %s", e.Op, e.Index, e.Msg)
}

func structural(op string, index int, format string, args ...any) error {
	return &StructuralError{Op: op, Index: index, Msg: fmt.Sprintf(format, args...)}
}

// ParseError reports that verification depends on a line whose text is not
// a formula. Index is the line being verified; Cited is the offending line,
// which equals Index when the line itself does not parse.
type ParseError struct {
	Index int
	Cited int
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	reason := "is empty"
	if e.Err != nil {
		reason = e.Err.Error()
	}
	if e.Cited == e.Index {
		return fmt.Sprintf("line %d does not parse: %s", e.Index+1, reason)
	}
	return fmt.Sprintf("line %d cites line %d, which does not parse: %s", e.Index+1, e.Cited+1, reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingRuleError is returned when a derived line has no rule.
type MissingRuleError struct {
	Index int
}

func (e *MissingRuleError) Error() string {
	return fmt.Sprintf("line %d has no rule", e.Index+1)
}

// VisibilityError names a citation that the line is not allowed to make.
type VisibilityError struct {
	Index  int
	Ref    Ref
	Target int // index of the cited line, -1 when it no longer exists
	Reason string
}

func (e *VisibilityError) Error() string {
	what := "a deleted line"
	if e.Target >= 0 {
		what = fmt.Sprintf("line %d", e.Target+1)
		if e.Ref.Subproof {
			what = fmt.Sprintf("the subproof at line %d", e.Target+1)
		}
	}
	return fmt.Sprintf("line %d cannot cite %s: %s", e.Index+1, what, e.Reason)
}

// Category names the class of a verification or edit error: "ok" for nil,
// otherwise one of "parse", "visibility", "missing-rule", "rule-shape",
// "rule-mismatch", "structural" or "other".
func Category(err error) string {
	var (
		perr *ParseError
		verr *VisibilityError
		merr *MissingRuleError
		rerr *rules.Violation
		serr *StructuralError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &perr):
		return "parse"
	case errors.As(err, &verr):
		return "visibility"
	case errors.As(err, &merr):
		return "missing-rule"
	case errors.As(err, &rerr):
		return rerr.Kind.String()
	case errors.As(err, &serr):
		return "structural"
	default:
		return "other"
	}
}
