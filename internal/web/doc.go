// Package web implements the HTTP API and dashboard server.
//
// The server exposes:
//   - Pitcher search and lookup backed by the in-memory registry
//   - Plinko chart and arsenal summary endpoints with TTL caching
//   - Load job submission and status
//   - A websocket feed of load job progress
//   - Static files for the dashboard
package web
