// Package crud holds the client-side synchronization logic for the record
// list: a Store that mirrors the remote collection, a Controller for the
// create/edit modal, Actions that call the API, and a Session that ties
// them together for one mounted view.
//
// None of these types start goroutines. Callers decide where blocking
// calls (Store.Load, Actions.*) run; the Bubble Tea UI runs them as
// commands and feeds results back through the step methods.
package crud
