// Package fetcher retrieves the raw listing documents for a day.
//
// A Fetcher sends one browser-like GET per Target, retrying network errors
// and non-2xx statuses with a multiplicative backoff, and keeps a copy of
// every document through a DebugSink. When a target declares render markers
// and the static document carries those markers without any matching rows,
// the page is re-acquired through a Renderer (a headless browser in
// production).
package fetcher
