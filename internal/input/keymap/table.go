package keymap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/muxkeys/internal/input/filter"
	"github.com/dshills/muxkeys/internal/input/key"
)

// Registration errors.
var (
	ErrEmptySequence    = errors.New("keymap: empty key sequence")
	ErrNilHandler       = errors.New("keymap: nil handler")
	ErrAmbiguousBinding = errors.New("keymap: ambiguous binding")
)

// Table is an ordered, mutex-guarded collection of bindings.
type Table struct {
	mu        sync.RWMutex
	name      string
	catalog   *filter.Catalog
	bindings  []*Binding // registration order
	nextID    BindingID
	nextOrder uint64
}

// NewTable creates an empty table validating predicates against catalog.
func NewTable(name string, catalog *filter.Catalog) *Table {
	return &Table{
		name:     name,
		catalog:  catalog,
		bindings: make([]*Binding, 0),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Catalog returns the catalog predicates are validated against.
func (t *Table) Catalog() *filter.Catalog {
	return t.catalog
}

// Register adds a binding and returns its ID.
func (t *Table) Register(seq *key.Sequence, pred filter.Predicate, h Handler, opts ...Option) (BindingID, error) {
	b, err := t.prepare(seq, pred, h, opts)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkAmbiguityLocked(b, 0); err != nil {
		return 0, err
	}
	return t.insertLocked(b), nil
}

// Unregister removes a binding. It reports whether the ID was present.
func (t *Table) Unregister(id BindingID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(id)
}

// Replace removes old and registers a new binding in one step. If the new
// binding is rejected, old stays in place. An unknown old ID is ignored.
func (t *Table) Replace(old BindingID, seq *key.Sequence, pred filter.Predicate, h Handler, opts ...Option) (BindingID, error) {
	b, err := t.prepare(seq, pred, h, opts)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkAmbiguityLocked(b, old); err != nil {
		return 0, err
	}
	t.removeLocked(old)
	return t.insertLocked(b), nil
}

// Lookup returns a copy of the binding with the given ID.
func (t *Table) Lookup(id BindingID) (Binding, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, b := range t.bindings {
		if b.ID == id {
			return b.clone(), true
		}
	}
	return Binding{}, false
}

// Bindings returns copies of all bindings in registration order.
func (t *Table) Bindings() []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Binding, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = b.clone()
	}
	return out
}

// ForSequence returns copies of the bindings whose sequence equals seq.
func (t *Table) ForSequence(seq *key.Sequence) []Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []Binding
	for _, b := range t.bindings {
		if b.Sequence.Equals(seq) {
			out = append(out, b.clone())
		}
	}
	return out
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.bindings)
}

// snapshot returns the current binding pointers. Bindings are never mutated
// after insertion, so the pointers stay valid after the lock is released.
func (t *Table) snapshot() []*Binding {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

func (t *Table) prepare(seq *key.Sequence, pred filter.Predicate, h Handler, opts []Option) (*Binding, error) {
	if seq.IsEmpty() {
		return nil, ErrEmptySequence
	}
	if h == nil {
		return nil, ErrNilHandler
	}
	if t.catalog != nil {
		if err := t.catalog.Validate(pred); err != nil {
			return nil, fmt.Errorf("table %s: binding %s: %w", t.name, seq, err)
		}
	}

	b := &Binding{
		Sequence:  seq.Clone(),
		Predicate: pred,
		Handler:   h,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// checkAmbiguityLocked rejects b if an existing binding other than skip has
// the same sequence and a predicate that can hold at the same time.
func (t *Table) checkAmbiguityLocked(b *Binding, skip BindingID) error {
	for _, existing := range t.bindings {
		if skip != 0 && existing.ID == skip {
			continue
		}
		if !existing.Sequence.Equals(b.Sequence) {
			continue
		}
		if t.overlap(existing.Predicate, b.Predicate) {
			return fmt.Errorf("%w: %s in table %s: %s overlaps %s (%s)",
				ErrAmbiguousBinding, b.Sequence, t.name, b.Predicate, existing.Predicate, existing.Label())
		}
	}
	return nil
}

func (t *Table) overlap(a, b filter.Predicate) bool {
	if t.catalog == nil {
		return true
	}
	return t.catalog.Overlap(a, b)
}

func (t *Table) insertLocked(b *Binding) BindingID {
	t.nextID++
	t.nextOrder++
	b.ID = t.nextID
	b.Order = t.nextOrder
	t.bindings = append(t.bindings, b)
	return b.ID
}

func (t *Table) removeLocked(id BindingID) bool {
	for i, b := range t.bindings {
		if b.ID == id {
			t.bindings = append(t.bindings[:i:i], t.bindings[i+1:]...)
			return true
		}
	}
	return false
}
