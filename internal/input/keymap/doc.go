// Package keymap provides key binding tables and their merged resolution.
//
// # Key Concepts
//
// Binding: maps a key sequence to a handler, gated by a filter.Predicate.
//
// Table: an ordered collection of bindings. Register returns a stable
// BindingID used for later removal; registration order is stored on the
// binding and breaks ties (later wins).
//
// Merged: an ordered list of tables, each behind an optional gate
// predicate, resolved as one.
//
// # Ambiguity
//
// Two bindings in one table with the same sequence whose predicates can be
// true at the same time are rejected at registration with
// ErrAmbiguousBinding. Across tables the declared layer order decides.
//
// # Resolution
//
// Given the keys pressed so far and a predicate environment:
//  1. Bindings whose gate or predicate is false are ignored.
//  2. Literal bindings (no Any token) are considered before wildcard ones.
//  3. If a binding continues the pressed keys, the result is Pending, with
//     the best exact match kept as the timeout Fallback.
//  4. Otherwise the best exact match fires: highest layer, then highest
//     registration order.
//  5. With nothing matching, the result is NoMatch.
package keymap
