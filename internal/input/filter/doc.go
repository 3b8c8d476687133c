// Package filter implements the boolean predicates that gate key bindings.
//
// A Predicate is an immutable expression tree built from named leaf queries
// and the And, Or and Not combinators:
//
//	filter.And(filter.Query(filter.HasPrefix), filter.Not(filter.Query(filter.CommandFocused)))
//
// Predicates carry no behavior of their own. A Catalog maps leaf names to
// functions over a State snapshot and records static constraints between
// leaves ("searching implies in-scroll-buffer"). Tables validate predicates
// against the catalog when bindings are registered, so an unknown leaf name
// is reported at assembly time and never reaches dispatch.
//
// Evaluation is pure and short-circuits left to right. The same sub-predicate
// value can be shared by any number of bindings.
package filter
