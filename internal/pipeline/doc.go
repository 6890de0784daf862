// Package pipeline connects the ingest fetchers to the pitch writer.
//
// The fetch side of a season load is bursty (a month chunk arrives as a few
// thousand rows at once) while the write side drains in steady batches, so
// the two are joined by a growable ring buffer rather than a fixed channel.
package pipeline
