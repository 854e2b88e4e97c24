// Package scraper turns the HTML schedule pages of the upstream providers into
// event records.
//
// Each source knows how to build its request URL for a day and how to parse
// the returned document. Records without a usable kickoff time or team pair
// are skipped and counted, never reported as errors. Shared extraction rules
// (labelled and unlabelled kickoff times, team splitting, channel cleanup,
// competition lookup) live in extract.go.
package scraper
