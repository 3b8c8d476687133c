package filter

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownQuery is returned when a predicate references a query name the
// catalog does not define.
var ErrUnknownQuery = errors.New("unknown query")

// maxOverlapLeaves bounds exhaustive enumeration in Overlap. Larger inputs
// are assumed to overlap.
const maxOverlapLeaves = 20

// QueryFunc reads one boolean fact from a state snapshot.
type QueryFunc func(State) bool

type constraintKind uint8

const (
	constraintImplies constraintKind = iota
	constraintExclusive
)

type constraint struct {
	kind constraintKind
	a, b string
}

func (c constraint) holds(env MapEnv) bool {
	switch c.kind {
	case constraintImplies:
		return !env[c.a] || env[c.b]
	case constraintExclusive:
		return !(env[c.a] && env[c.b])
	}
	return true
}

// Catalog defines the leaf queries predicates may reference.
//
// A Catalog is built once and then shared read-only; Define, Implies and
// Exclusive must not be called concurrently with evaluation.
type Catalog struct {
	queries     map[string]QueryFunc
	constraints []constraint
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{queries: make(map[string]QueryFunc)}
}

// Define adds or replaces a leaf query.
func (c *Catalog) Define(name string, fn QueryFunc) *Catalog {
	c.queries[name] = fn
	return c
}

// Implies records that query a can only be true when b is true.
func (c *Catalog) Implies(a, b string) *Catalog {
	c.constraints = append(c.constraints, constraint{kind: constraintImplies, a: a, b: b})
	return c
}

// Exclusive records that queries a and b are never true together.
func (c *Catalog) Exclusive(a, b string) *Catalog {
	c.constraints = append(c.constraints, constraint{kind: constraintExclusive, a: a, b: b})
	return c
}

// Has reports whether name is defined.
func (c *Catalog) Has(name string) bool {
	_, ok := c.queries[name]
	return ok
}

// Names returns the defined query names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.queries))
	for n := range c.queries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every leaf of p is defined.
func (c *Catalog) Validate(p Predicate) error {
	for _, name := range p.Leaves() {
		if !c.Has(name) {
			return fmt.Errorf("%w: %q", ErrUnknownQuery, name)
		}
	}
	return nil
}

// Env binds a state snapshot to the catalog's queries.
func (c *Catalog) Env(s State) Env {
	return stateEnv{catalog: c, state: s}
}

type stateEnv struct {
	catalog *Catalog
	state   State
}

func (e stateEnv) Value(name string) bool {
	fn, ok := e.catalog.queries[name]
	if !ok {
		return false
	}
	return fn(e.state)
}

// Overlap reports whether a and b can both be true for some assignment of
// their leaves that respects the catalog's constraints. Leaves are treated
// as independent apart from those constraints.
func (c *Catalog) Overlap(a, b Predicate) bool {
	leaves := And(a, b).Leaves()
	if len(leaves) > maxOverlapLeaves {
		return true
	}

	in := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		in[l] = true
	}
	var active []constraint
	for _, ct := range c.constraints {
		if in[ct.a] && in[ct.b] {
			active = append(active, ct)
		}
	}

	env := make(MapEnv, len(leaves))
	for mask := 0; mask < 1<<len(leaves); mask++ {
		for i, l := range leaves {
			env[l] = mask&(1<<i) != 0
		}
		if !consistent(active, env) {
			continue
		}
		if Eval(a, env) && Eval(b, env) {
			return true
		}
	}
	return false
}

// Satisfiable reports whether p can be true at all.
func (c *Catalog) Satisfiable(p Predicate) bool {
	return c.Overlap(p, Always)
}

func consistent(cs []constraint, env MapEnv) bool {
	for _, ct := range cs {
		if !ct.holds(env) {
			return false
		}
	}
	return true
}
