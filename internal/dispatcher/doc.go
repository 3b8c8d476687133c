// Package dispatcher resolves key events for one multiplexer client and runs
// the handler of the winning binding.
//
// # Architecture
//
// A Dispatcher owns four binding tables and merges them, together with an
// optional line-editor table, into a single evaluation order:
//
//  1. line-editor: supplied by the host, gated to command, prompt and
//     scroll-buffer focus while no overlay, prefix or confirmation is up
//  2. builtins: pane-number overlay, prefix swallow, confirmation, command
//     line, scroll buffer and key forwarding
//  3. search: incremental search inside the scroll buffer
//  4. prefix: the single enter-prefix binding
//  5. custom: bindings added with AddBinding
//
// Later tables win over earlier ones, and within a table later
// registrations win. Literal sequences always beat wildcard ones.
//
// # Dispatch
//
// Every HandleKey call snapshots the host into a filter.State, then resolves
// the pending keys plus the new event against the merged tables:
//
//	res, err := d.HandleKey(key.NewRuneEvent('c', key.ModNone))
//	switch res.Status {
//	case dispatcher.Fired:   // a handler ran
//	case dispatcher.Pending: // waiting for the rest of a sequence
//	case dispatcher.NoMatch: // nothing bound, keys dropped
//	}
//
// A pending sequence fires its best shorter match after SequenceTimeout or
// on FlushPending. A key that breaks a pending sequence first settles the
// earlier keys the same way, then is resolved on its own.
//
// # Configuration
//
// SetPrefix, AddBinding and RemoveBinding mutate the tables. They are safe
// to call from any goroutine, including from inside a handler, in which case
// the change is applied once the current event has been handled.
//
// # Handlers
//
// Handlers receive an execctx.Context carrying the host, the active window
// and pane, the client state, the triggering keys and the repeat count.
// The dispatcher never derives a count from keys; the host decides how
// numeric arguments are typed and passes them with SetArg before the key
// they apply to. Without SetArg the count is 1.
// Handler panics are recovered and reported as ErrPanic unless disabled
// with WithPanicRecovery(false).
package dispatcher
