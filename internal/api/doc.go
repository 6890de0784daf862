// Package api provides clients for MLB's public data endpoints.
//
// Two upstreams are used:
//   - MLB Stats API (https://statsapi.mlb.com/api/v1): player directory
//     and people search, JSON.
//   - Baseball Savant statcast_search (https://baseballsavant.mlb.com):
//     pitch-by-pitch Statcast data, CSV.
//
// Neither endpoint requires authentication.
package api
