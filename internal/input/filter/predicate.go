package filter

import (
	"sort"
	"strings"
)

// Kind identifies the node type of a Predicate.
type Kind uint8

const (
	// KindAlways is the constant true predicate.
	KindAlways Kind = iota
	// KindNever is the constant false predicate.
	KindNever
	// KindQuery is a named leaf query.
	KindQuery
	// KindAnd is true when every operand is true.
	KindAnd
	// KindOr is true when any operand is true.
	KindOr
	// KindNot negates its single operand.
	KindNot
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAlways:
		return "always"
	case KindNever:
		return "never"
	case KindQuery:
		return "query"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindNot:
		return "not"
	default:
		return "unknown"
	}
}

// Predicate is an immutable boolean expression over named queries.
// The zero value is Always.
type Predicate struct {
	kind Kind
	name string
	args []Predicate
}

var (
	// Always is the predicate that is always true.
	Always = Predicate{kind: KindAlways}
	// Never is the predicate that is never true.
	Never = Predicate{kind: KindNever}
)

// Query returns a leaf predicate for the named query.
func Query(name string) Predicate {
	return Predicate{kind: KindQuery, name: name}
}

// And returns the conjunction of ps. Nested conjunctions are flattened.
// And() is Always.
func And(ps ...Predicate) Predicate {
	return combine(KindAnd, Always, ps)
}

// Or returns the disjunction of ps. Nested disjunctions are flattened.
// Or() is Never.
func Or(ps ...Predicate) Predicate {
	return combine(KindOr, Never, ps)
}

// Not returns the negation of p.
func Not(p Predicate) Predicate {
	switch p.kind {
	case KindAlways:
		return Never
	case KindNever:
		return Always
	case KindNot:
		return p.args[0]
	}
	return Predicate{kind: KindNot, args: []Predicate{p}}
}

func combine(kind Kind, identity Predicate, ps []Predicate) Predicate {
	args := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		switch {
		case p.kind == identity.kind:
			continue
		case p.kind == kind:
			args = append(args, p.args...)
		default:
			args = append(args, p)
		}
	}
	switch len(args) {
	case 0:
		return identity
	case 1:
		return args[0]
	}
	return Predicate{kind: kind, args: args}
}

// And returns p & q.
func (p Predicate) And(q ...Predicate) Predicate {
	return And(append([]Predicate{p}, q...)...)
}

// Or returns p | q.
func (p Predicate) Or(q ...Predicate) Predicate {
	return Or(append([]Predicate{p}, q...)...)
}

// Kind returns the node type.
func (p Predicate) Kind() Kind {
	return p.kind
}

// Name returns the query name of a leaf, or "" for other nodes.
func (p Predicate) Name() string {
	return p.name
}

// Operands returns a copy of the operands of And, Or and Not nodes.
func (p Predicate) Operands() []Predicate {
	if len(p.args) == 0 {
		return nil
	}
	out := make([]Predicate, len(p.args))
	copy(out, p.args)
	return out
}

// Leaves returns the distinct query names referenced by p, sorted.
func (p Predicate) Leaves() []string {
	set := make(map[string]struct{})
	p.collect(set)
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p Predicate) collect(set map[string]struct{}) {
	if p.kind == KindQuery {
		set[p.name] = struct{}{}
		return
	}
	for _, a := range p.args {
		a.collect(set)
	}
}

// Equal reports structural equality.
func (p Predicate) Equal(q Predicate) bool {
	if p.kind != q.kind || p.name != q.name || len(p.args) != len(q.args) {
		return false
	}
	for i := range p.args {
		if !p.args[i].Equal(q.args[i]) {
			return false
		}
	}
	return true
}

// String renders p using & | ! and parentheses only where needed,
// e.g. "has-prefix & !(command-focused | prompt-focused)".
func (p Predicate) String() string {
	var sb strings.Builder
	p.write(&sb)
	return sb.String()
}

func (p Predicate) write(sb *strings.Builder) {
	switch p.kind {
	case KindAlways:
		sb.WriteString("always")
	case KindNever:
		sb.WriteString("never")
	case KindQuery:
		sb.WriteString(p.name)
	case KindNot:
		sb.WriteByte('!')
		p.args[0].writeOperand(sb, KindNot)
	case KindAnd, KindOr:
		sep := " & "
		if p.kind == KindOr {
			sep = " | "
		}
		for i, a := range p.args {
			if i > 0 {
				sb.WriteString(sep)
			}
			a.writeOperand(sb, p.kind)
		}
	}
}

// writeOperand parenthesizes p when it binds looser than its parent.
// Precedence, tightest first: !, &, |.
func (p Predicate) writeOperand(sb *strings.Builder, parent Kind) {
	needParens := false
	switch p.kind {
	case KindOr:
		needParens = parent == KindAnd || parent == KindNot
	case KindAnd:
		needParens = parent == KindNot
	}
	if needParens {
		sb.WriteByte('(')
		p.write(sb)
		sb.WriteByte(')')
		return
	}
	p.write(sb)
}

// Env supplies leaf values during evaluation.
type Env interface {
	// Value returns the current value of the named query.
	Value(name string) bool
}

// MapEnv is an Env backed by a map. Missing names are false.
type MapEnv map[string]bool

// Value implements Env.
func (m MapEnv) Value(name string) bool {
	return m[name]
}

// Eval evaluates p against env, short-circuiting left to right.
func Eval(p Predicate, env Env) bool {
	switch p.kind {
	case KindAlways:
		return true
	case KindNever:
		return false
	case KindQuery:
		return env.Value(p.name)
	case KindNot:
		return !Eval(p.args[0], env)
	case KindAnd:
		for _, a := range p.args {
			if !Eval(a, env) {
				return false
			}
		}
		return true
	case KindOr:
		for _, a := range p.args {
			if Eval(a, env) {
				return true
			}
		}
		return false
	}
	return false
}
