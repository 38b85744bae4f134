// Package session is the boundary an editor drives proofs through. Proofs
// are addressed by opaque handles issued by a Registry, so callers never hold
// the proof itself.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/fitch/internal/document"
	"github.com/gnoswap-labs/fitch/internal/proof"
	"github.com/gnoswap-labs/fitch/internal/rules"
)

// ErrUnknownHandle is returned for a handle the registry did not issue or
// has already destroyed.
var ErrUnknownHandle = errors.New("unknown proof handle")

// Handle names a proof held by a Registry.
type Handle string

// Citation is a reference by line index, as an editor sees it.
type Citation struct {
	Line     int
	Subproof bool
}

type entry struct {
	proof   *proof.Proof
	authors []string
}

// Registry owns the open proofs. Its methods are safe for concurrent use,
// but edits to one proof are applied one at a time.
type Registry struct {
	mu      sync.Mutex
	proofs  map[Handle]*entry
	logger  *zap.Logger
	metrics *Metrics
}

// NewRegistry creates an empty registry. Both arguments may be nil.
func NewRegistry(logger *zap.Logger, metrics *Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Registry{
		proofs:  make(map[Handle]*entry),
		logger:  logger,
		metrics: metrics,
	}
}

// Create registers a new empty proof.
func (r *Registry) Create(authors ...string) Handle {
	return r.register(&entry{proof: proof.New(), authors: authors})
}

// Load registers the proof stored in an .aprf document. It reports false,
// and registers nothing, if the document cannot be read.
func (r *Registry) Load(text string) (Handle, bool) {
	doc, err := document.Decode(strings.NewReader(text))
	if err == nil {
		var p *proof.Proof
		if p, err = doc.Build(); err == nil {
			return r.register(&entry{proof: p, authors: doc.Authors}), true
		}
	}
	r.metrics.LoadFailures.Inc()
	r.logger.Debug("load failed", zap.Error(err))
	return "", false
}

func (r *Registry) register(e *entry) Handle {
	h := Handle(uuid.NewString())
	r.mu.Lock()
	r.proofs[h] = e
	r.mu.Unlock()

	r.metrics.OpenProofs.Inc()
	r.logger.Debug("proof opened", zap.String("handle", string(h)))
	return h
}

// Destroy releases the proof. The handle is invalid afterwards.
func (r *Registry) Destroy(h Handle) error {
	r.mu.Lock()
	_, ok := r.proofs[h]
	delete(r.proofs, h)
	r.mu.Unlock()

	if !ok {
		return ErrUnknownHandle
	}
	r.metrics.OpenProofs.Dec()
	r.logger.Debug("proof closed", zap.String("handle", string(h)))
	return nil
}

// Len returns the number of open proofs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proofs)
}

// with runs fn on the proof behind h while holding the registry lock.
func (r *Registry) with(h Handle, fn func(e *entry) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.proofs[h]
	if !ok {
		return ErrUnknownHandle
	}
	return fn(e)
}

// InsertLine inserts an empty line at pos. Edits that break the nesting
// rules are rejected with a *proof.StructuralError.
func (r *Registry) InsertLine(h Handle, pos int, assumption bool, level int) error {
	return r.with(h, func(e *entry) error {
		return e.proof.InsertLine(pos, assumption, level)
	})
}

// DeleteLine removes line pos and every citation of it.
func (r *Registry) DeleteLine(h Handle, pos int) error {
	return r.with(h, func(e *entry) error {
		return e.proof.DeleteLine(pos)
	})
}

// SetLineText replaces the text of line pos. Text that does not parse is
// kept and reported when the line is verified.
func (r *Registry) SetLineText(h Handle, pos int, text string) error {
	return r.with(h, func(e *entry) error {
		return e.proof.SetLineText(pos, text)
	})
}

// SetRule selects a rule by its stable identifier.
func (r *Registry) SetRule(h Handle, pos int, ruleID string) error {
	k, ok := rules.Lookup(ruleID)
	if !ok {
		return fmt.Errorf("unknown rule %q", ruleID)
	}
	return r.with(h, func(e *entry) error {
		return e.proof.SetRule(pos, k)
	})
}

// SetRefs replaces the citations of line pos. Every citation must name an
// existing line; whether it is visible is only checked on verification.
func (r *Registry) SetRefs(h Handle, pos int, cites ...Citation) error {
	return r.with(h, func(e *entry) error {
		refs := make([]proof.Ref, 0, len(cites))
		for _, c := range cites {
			if c.Line < 0 || c.Line >= e.proof.Len() {
				return &proof.StructuralError{Op: "set refs", Index: pos, Msg: fmt.Sprintf("no line %d to cite", c.Line)}
			}
			if c.Subproof {
				refs = append(refs, e.proof.SubproofRef(c.Line))
			} else {
				refs = append(refs, e.proof.LineRef(c.Line))
			}
		}
		return e.proof.SetRefs(pos, refs...)
	})
}

// MoveCursor places the insertion cursor immediately after line pos. Index
// -1 places it before the first line.
func (r *Registry) MoveCursor(h Handle, pos int) error {
	return r.with(h, func(e *entry) error {
		return e.proof.MoveCursor(pos)
	})
}

// VerifyLine returns the diagnostic for line pos, or "" when it verifies.
// The error is only set for an unknown handle.
func (r *Registry) VerifyLine(h Handle, pos int) (string, error) {
	var result error
	err := r.with(h, func(e *entry) error {
		result = e.proof.VerifyLine(pos)
		return nil
	})
	if err != nil {
		return "", err
	}
	r.metrics.Verifications.WithLabelValues(proof.Category(result)).Inc()
	if result != nil {
		return result.Error(), nil
	}
	return "", nil
}

// Render returns the proof's display string.
func (r *Registry) Render(h Handle) (string, error) {
	var out string
	err := r.with(h, func(e *entry) error {
		out = e.proof.DisplayString()
		return nil
	})
	return out, err
}

// Save returns the proof as an .aprf document.
func (r *Registry) Save(h Handle) (string, error) {
	var buf bytes.Buffer
	err := r.with(h, func(e *entry) error {
		return document.Encode(&buf, document.FromProof(e.proof, e.authors))
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
