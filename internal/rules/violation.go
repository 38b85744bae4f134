package rules

import "fmt"

// ViolationKind classifies why a rule rejected a line.
type ViolationKind int

const (
	// Shape: the number of cited premises or subproofs is wrong for the rule.
	Shape ViolationKind = iota
	// Mismatch: the citations fit the rule's arity but the formulas do not
	// have the form the rule requires.
	Mismatch
)

func (k ViolationKind) String() string {
	switch k {
	case Shape:
		return "rule-shape"
	case Mismatch:
		return "rule-mismatch"
	default:
		return "?"
	}
}

// Violation is returned by Verify when a rule does not justify a line.
type Violation struct {
	Rule Kind
	Kind ViolationKind
	Msg  string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Rule.Name(), v.Msg)
}

func shapef(k Kind, format string, args ...any) error {
	return &Violation{Rule: k, Kind: Shape, Msg: fmt.Sprintf(format, args...)}
}

// mismatchf builds a Mismatch violation. The rule is filled in by Verify.
func mismatchf(format string, args ...any) error {
	return &Violation{Kind: Mismatch, Msg: fmt.Sprintf(format, args...)}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
