// Package storage persists the merged schedule snapshot.
//
// The snapshot is a single JSON file in the data directory (merged.json by
// default) that is replaced atomically on every run, successful or not.
// Debug copies of fetched documents live next to it. After a write the same
// bytes can be pushed to mirror Destinations such as an S3 bucket.
package storage
