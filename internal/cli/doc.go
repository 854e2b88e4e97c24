// Package cli implements the command-line interface for tvfixtures.
//
// The cli package provides the Cobra-based commands: run (fetch, merge and
// write one day's snapshot), serve (the HTTP API) and show (print the stored
// snapshot with channel/search filters, sorting and text/JSON/iCalendar
// output). It wires configuration, logging, metrics, storage, the fetcher and
// the pipeline together.
package cli
