// Package plinko builds chart-ready aggregates of a pitcher's pitch mix.
//
// A plinko chart is a fixed grid of the 12 ball-strike counts. Each node
// carries the pitch-type distribution thrown in that count; edges carry the
// number of times the pitcher moved a batter between adjacent counts. The
// layout and palette follow Baseball Savant's pitch-type colors.
//
// Everything here is pure computation over []model.Pitch; persistence and
// transport live elsewhere.
package plinko
