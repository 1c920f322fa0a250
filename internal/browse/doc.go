// Package browse holds the controllers behind every listing view: the
// debounced search suggestions, the paginated home feed, the infinite
// search accumulator and the weekly schedule grouper.
//
// Controllers are plain state machines. They never spawn goroutines; a host
// (the TUI event loop, an HTTP handler, a CLI command) calls Begin* to obtain
// a request, performs the fetch however it likes, and hands the outcome back
// with Complete or Resolve. Every request carries a token so that a stale
// completion can never overwrite fresher state.
package browse
