package formatter

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	tt "github.com/gnoswap-labs/fitch/internal/types"
)

func init() {
	color.NoColor = true
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		issue tt.Issue
		want  string
	}{
		{
			name: "nested line",
			issue: tt.Issue{
				Rule:     "verify-line",
				Filename: "p.aprf",
				Line:     3,
				Snippet:  " 3 | | A  [and-elim 1]",
				Message:  "∧ Elim: the cited line must be a conjunction",
				Severity: tt.SeverityError,
			},
			want: "error: verify-line\n" +
				"  --> p.aprf:3\n" +
				"   |\n" +
				" 3 | | A  [and-elim 1]\n" +
				"   |   ~\n" +
				"   = ∧ Elim: the cited line must be a conjunction\n" +
				"\n",
		},
		{
			name: "top level line with note",
			issue: tt.Issue{
				Rule:     "verify-line",
				Filename: "p.aprf",
				Line:     12,
				Snippet:  "12 | A ∧ B  [none]",
				Message:  "line 12 has no rule",
				Note:     "run `fitch rules` to list the available rules",
				Severity: tt.SeverityError,
			},
			want: "error: verify-line\n" +
				"  --> p.aprf:12\n" +
				"   |\n" +
				"12 | A ∧ B  [none]\n" +
				"   | ~~~~~\n" +
				"   = line 12 has no rule\n" +
				"Note: run `fitch rules` to list the available rules\n" +
				"\n",
		},
		{
			name: "whole file",
			issue: tt.Issue{
				Rule:     "integrity",
				Filename: "p.aprf",
				Message:  "the document hash does not match its contents",
				Note:     "authorship is recorded as UNKNOWN",
				Severity: tt.SeverityWarning,
			},
			want: "warning: integrity\n" +
				" --> p.aprf\n" +
				"  = the document hash does not match its contents\n" +
				"Note: authorship is recorded as UNKNOWN\n" +
				"\n",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GenerateFormattedIssue([]tt.Issue{tc.issue}))
		})
	}
}

func TestMeasureRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		row                    string
		gutter, nesting, width int
	}{
		{row: " 1 | A ∧ B  [premise]", gutter: 2, nesting: 0, width: 5},
		{row: " 4 | | | ¬C  [assumption]", gutter: 2, nesting: 2, width: 2},
		{row: "100 | B &  [none]", gutter: 3, nesting: 0, width: 3},
		{row: "no gutter", gutter: 0, nesting: 0, width: 0},
	}
	for _, tc := range tests {
		gutter, nesting, width := measureRow(tc.row)
		assert.Equal(t, tc.gutter, gutter, tc.row)
		assert.Equal(t, tc.nesting, nesting, tc.row)
		assert.Equal(t, tc.width, width, tc.row)
	}
}
