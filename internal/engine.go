package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gnoswap-labs/fitch/internal/document"
	"github.com/gnoswap-labs/fitch/internal/proof"
	"github.com/gnoswap-labs/fitch/internal/rules"
	tt "github.com/gnoswap-labs/fitch/internal/types"
)

// SourceName is the filename reported for issues found by RunSource.
const SourceName = "<source>"

// Engine checks proof files.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	checks       map[string]ProofCheck
	cache        *Cache
}

// NewEngine creates an engine configured by rules. A key naming a check sets
// that check's severity; a key naming an inference rule with severity off
// forbids the rule.
func NewEngine(rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

type checkConstructor func() ProofCheck

var allCheckConstructors = map[string]checkConstructor{
	"verify-line":     NewLineCheck,
	"disallowed-rule": NewDisallowedRuleCheck,
	"goal":            NewGoalCheck,
	"integrity":       NewIntegrityCheck,
}

// CheckNames returns the names of every check, sorted.
func CheckNames() []string {
	names := make([]string, 0, len(allCheckConstructors))
	for name := range allCheckConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) applyRules(config map[string]tt.ConfigRule) error {
	e.checks = make(map[string]ProofCheck, len(allCheckConstructors))
	for name, newCheck := range allCheckConstructors {
		e.checks[name] = newCheck()
	}
	disallowed := e.checks["disallowed-rule"].(*DisallowedRuleCheck)

	for key, rule := range config {
		if c, ok := e.checks[key]; ok {
			c.SetSeverity(rule.Severity)
			if rule.Severity == tt.SeverityOff {
				e.IgnoreRule(key)
			}
			continue
		}
		k, ok := rules.Lookup(key)
		if !ok {
			return fmt.Errorf("unknown rule %q in configuration", key)
		}
		if rule.Severity == tt.SeverityOff {
			disallowed.Forbid(k)
		}
	}
	return nil
}

// SetCache makes Run consult and fill c.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// Run checks the proof file at filename.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename, source); ok {
			return issues, nil
		}
	}

	issues, err := e.run(filename, source)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, source, issues); err != nil {
			return nil, fmt.Errorf("error caching issues: %w", err)
		}
	}
	return issues, nil
}

// RunSource checks a proof document held in memory.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.run(SourceName, source)
}

func (e *Engine) run(filename string, source []byte) ([]tt.Issue, error) {
	doc, err := document.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	p, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []tt.Issue
	for _, check := range e.checks {
		if e.ignoredRules[check.Name()] {
			continue
		}
		wg.Add(1)
		go func(c ProofCheck) {
			defer wg.Done()
			issues := c.Check(filename, doc, p)

			mu.Lock()
			allIssues = append(allIssues, issues...)
			mu.Unlock()
		}(check)
	}
	wg.Wait()

	sortIssues(allIssues)
	return allIssues, nil
}

// LoadProof decodes the proof file at filename without checking it.
func LoadProof(filename string) (*proof.Proof, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	defer f.Close()

	doc, err := document.Decode(f)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Rule < issues[j].Rule
	})
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath skips files matching pattern. A pattern matches the full path,
// its base name, or any directory prefix of it.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(pattern))
}

func (e *Engine) isIgnoredPath(filename string) bool {
	path := filepath.Clean(filename)
	for _, pattern := range e.ignoredPaths {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
		if strings.HasPrefix(path, pattern+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// CheckSeverity returns the severity the named check reports at.
func (e *Engine) CheckSeverity(name string) tt.Severity {
	if c, ok := e.checks[name]; ok {
		return c.Severity()
	}
	return tt.SeverityOff
}
