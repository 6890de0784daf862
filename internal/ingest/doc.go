// Package ingest implements the Season Loader component.
//
// The Season Loader:
//   - Fetches a pitcher's season from the Savant statcast CSV endpoint
//   - Splits the season into date chunks to keep responses bounded
//   - Pushes converted pitches into the write pipeline
//   - Tracks each run as a load job and reports progress to subscribers
package ingest
