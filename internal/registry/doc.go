// Package registry maintains the in-memory pitcher directory.
//
// On startup the registry cold-loads whatever the store already has, then
// syncs the season's player list from the Stats API and reconciles on an
// interval. Search is accent- and case-insensitive over the folded names.
package registry
