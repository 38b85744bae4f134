package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/fitch/internal/document"
	"github.com/gnoswap-labs/fitch/internal/proof"
	"github.com/gnoswap-labs/fitch/internal/rules"
	tt "github.com/gnoswap-labs/fitch/internal/types"
)

// proofSource encodes the two-line proof "A ∧ B / conclusion by rule 1"
// with goal A.
func proofSource(t *testing.T, conclusion string, rule rules.Kind, authors ...string) []byte {
	t.Helper()
	p := proof.New()
	require.NoError(t, p.InsertLine(0, true, 0))
	require.NoError(t, p.SetLineText(0, "A & B"))
	require.NoError(t, p.InsertLine(1, false, 0))
	require.NoError(t, p.SetLineText(1, conclusion))
	require.NoError(t, p.SetRule(1, rule))
	require.NoError(t, p.SetRefs(1, p.LineRef(0)))
	require.NoError(t, p.AddGoal("A"))

	var buf bytes.Buffer
	require.NoError(t, document.Encode(&buf, document.FromProof(p, authors)))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func newTestEngine(t *testing.T, config map[string]tt.ConfigRule) *Engine {
	t.Helper()
	e, err := NewEngine(config)
	require.NoError(t, err)
	return e
}

func TestRunSourceClean(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, nil)

	issues, err := e.RunSource(proofSource(t, "A", rules.AndElim, "alice"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestRunSourceReportsLines(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, nil)

	issues, err := e.RunSource(proofSource(t, "C", rules.AndElim, "alice"))
	require.NoError(t, err)
	require.Len(t, issues, 2)

	goal := issues[0]
	assert.Equal(t, "goal", goal.Rule)
	assert.Equal(t, 0, goal.Line)
	assert.Equal(t, "goal A is not proved", goal.Message)

	line := issues[1]
	assert.Equal(t, "verify-line", line.Rule)
	assert.Equal(t, "rule-mismatch", line.Category)
	assert.Equal(t, SourceName, line.Filename)
	assert.Equal(t, 2, line.Line)
	assert.Equal(t, " 2 | C  [and-elim 1]", line.Snippet)
	assert.Equal(t, tt.SeverityError, line.Severity)
	assert.Contains(t, line.Message, "∧ Elim")
}

func TestConfiguredSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		config    map[string]tt.ConfigRule
		wantRules []string
		wantSev   []tt.Severity
	}{
		{
			name:      "defaults",
			wantRules: []string{"goal", "verify-line"},
			wantSev:   []tt.Severity{tt.SeverityError, tt.SeverityError},
		},
		{
			name:      "goal downgraded",
			config:    map[string]tt.ConfigRule{"goal": {Severity: tt.SeverityWarning}},
			wantRules: []string{"goal", "verify-line"},
			wantSev:   []tt.Severity{tt.SeverityWarning, tt.SeverityError},
		},
		{
			name:      "goal off",
			config:    map[string]tt.ConfigRule{"goal": {Severity: tt.SeverityOff}},
			wantRules: []string{"verify-line"},
			wantSev:   []tt.Severity{tt.SeverityError},
		},
		{
			name:      "rule forbidden",
			config:    map[string]tt.ConfigRule{"and-elim": {Severity: tt.SeverityOff}},
			wantRules: []string{"goal", "disallowed-rule", "verify-line"},
			wantSev:   []tt.Severity{tt.SeverityError, tt.SeverityError, tt.SeverityError},
		},
		{
			name:      "rule not forbidden",
			config:    map[string]tt.ConfigRule{"and-elim": {Severity: tt.SeverityInfo}},
			wantRules: []string{"goal", "verify-line"},
			wantSev:   []tt.Severity{tt.SeverityError, tt.SeverityError},
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, tc.config)
			issues, err := e.RunSource(proofSource(t, "C", rules.AndElim, "alice"))
			require.NoError(t, err)

			var gotRules []string
			var gotSev []tt.Severity
			for _, issue := range issues {
				gotRules = append(gotRules, issue.Rule)
				gotSev = append(gotSev, issue.Severity)
			}
			assert.Equal(t, tc.wantRules, gotRules)
			assert.Equal(t, tc.wantSev, gotSev)
		})
	}
}

func TestDisallowedRuleMessage(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, map[string]tt.ConfigRule{"and-elim": {Severity: tt.SeverityOff}})

	issues, err := e.RunSource(proofSource(t, "A", rules.AndElim))
	require.NoError(t, err)

	var found bool
	for _, issue := range issues {
		if issue.Rule == "disallowed-rule" {
			found = true
			assert.Equal(t, 2, issue.Line)
			assert.Equal(t, "∧ Elim is not allowed in this proof", issue.Message)
		}
	}
	assert.True(t, found)
}

func TestNewEngineRejectsUnknownRule(t *testing.T) {
	t.Parallel()
	_, err := NewEngine(map[string]tt.ConfigRule{"and-elimination": {}})
	assert.ErrorContains(t, err, `unknown rule "and-elimination"`)
}

func TestIgnoreRule(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, nil)
	e.IgnoreRule("verify-line")

	issues, err := e.RunSource(proofSource(t, "C", rules.AndElim, "alice"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "goal", issues[0].Rule)
}

func TestIgnorePath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bad := proofSource(t, "C", rules.AndElim, "alice")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "drafts"), 0o755))

	tests := []struct {
		pattern string
		file    string
		ignored bool
	}{
		{pattern: filepath.Join(dir, "drafts"), file: "drafts/a.aprf", ignored: true},
		{pattern: "*.aprf", file: "b.aprf", ignored: true},
		{pattern: "skip.aprf", file: "keep.aprf", ignored: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			e := newTestEngine(t, nil)
			e.IgnorePath(tc.pattern)
			path := writeFile(t, dir, tc.file, bad)

			issues, err := e.Run(path)
			require.NoError(t, err)
			assert.Equal(t, tc.ignored, len(issues) == 0)
		})
	}
}

func TestIntegrityIssue(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, nil)

	src := proofSource(t, "A", rules.AndElim, "alice")
	tampered := []byte(strings.Replace(string(src), "alice", "mallory", 1))

	issues, err := e.RunSource(tampered)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "integrity", issues[0].Rule)
	assert.Equal(t, tt.SeverityWarning, issues[0].Severity)
	assert.Equal(t, "authorship is recorded as UNKNOWN", issues[0].Note)
}

func TestRunRejectsMalformedDocuments(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, nil)

	_, err := e.RunSource([]byte("garbage"))
	var ferr *document.FormatError
	assert.ErrorAs(t, err, &ferr)

	_, err = e.Run(filepath.Join(t.TempDir(), "missing.aprf"))
	assert.ErrorContains(t, err, "error reading file")
}

func TestRunUsesCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cache, err := NewCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	e := newTestEngine(t, nil)
	e.SetCache(cache)

	src := proofSource(t, "C", rules.AndElim, "alice")
	path := writeFile(t, dir, "p.aprf", src)

	issues, err := e.Run(path)
	require.NoError(t, err)
	require.NotEmpty(t, issues)

	cached, ok := cache.Get(path, src)
	require.True(t, ok)
	assert.Equal(t, issues, cached)

	again, err := e.Run(path)
	require.NoError(t, err)
	assert.Equal(t, issues, again)
}

func TestLoadProof(t *testing.T) {
	t.Parallel()
	path := writeFile(t, t.TempDir(), "p.aprf", proofSource(t, "A", rules.AndElim))

	p, err := LoadProof(path)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())
	assert.NoError(t, p.VerifyLine(1))
}

func TestCheckNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"disallowed-rule", "goal", "integrity", "verify-line"}, CheckNames())
}
