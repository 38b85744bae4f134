// Package pool interns parsed formulas so that structurally equal formulas
// share one small handle for the lifetime of the proof that owns the pool.
package pool

import (
	"fmt"

	"github.com/gnoswap-labs/fitch/internal/expr"
)

// Handle identifies an interned formula. Handles are only meaningful for the
// pool that issued them.
type Handle uint32

// ParseError is returned by Intern when the text is not a formula.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Pool owns the interned formulas of one proof. Entries are never removed,
// so every issued handle stays valid while the pool exists.
type Pool struct {
	exprs []expr.Expr
	index map[string][]Handle // canonical rendering -> candidates
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{index: make(map[string][]Handle)}
}

// Intern parses text and returns the handle of the resulting formula. On a
// parse failure the pool is left unchanged.
func (p *Pool) Intern(text string) (Handle, error) {
	e, err := expr.Parse(text)
	if err != nil {
		return 0, &ParseError{Text: text, Err: err}
	}
	return p.InternExpr(e), nil
}

// InternExpr returns the handle of e, adding it to the pool if no
// structurally equal formula was interned before.
func (p *Pool) InternExpr(e expr.Expr) Handle {
	key := e.String()
	for _, h := range p.index[key] {
		if expr.Equal(p.exprs[h], e) {
			return h
		}
	}

	h := Handle(len(p.exprs))
	p.exprs = append(p.exprs, e)
	p.index[key] = append(p.index[key], h)
	return h
}

// Get returns the formula behind h. It panics on a handle this pool never
// issued, which is a programming error rather than an input error.
func (p *Pool) Get(h Handle) expr.Expr {
	return p.exprs[h]
}

// Render returns the canonical text of the formula behind h.
func (p *Pool) Render(h Handle) string {
	return p.exprs[h].String()
}

// Len reports how many distinct formulas have been interned.
func (p *Pool) Len() int {
	return len(p.exprs)
}
