// Package event provides the schedule types shared by the scrapers, the merger
// and the snapshot writer.
//
// An Event is one broadcast listing as extracted from a single source. A
// MergedEvent is the reconciled record written to the snapshot, carrying the
// set of sources that reported it. Time values are naive local strings in the
// reference timezone: the time a source states is trusted verbatim and never
// converted.
package event
