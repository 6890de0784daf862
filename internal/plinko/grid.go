package plinko

import "github.com/andrewchiang3/pitcher-plinko/internal/model"

// Position is a node's fixed coordinate on the chart canvas.
type Position struct {
	X float64
	Y float64
}

// Transition is a directed edge between two counts.
type Transition struct {
	From model.Count
	To   model.Count
}

// GridCounts lists the 12 counts in display order: top of the funnel (0-0)
// down to the full count.
var GridCounts = []model.Count{
	{Balls: 0, Strikes: 0},
	{Balls: 1, Strikes: 0},
	{Balls: 0, Strikes: 1},
	{Balls: 2, Strikes: 0},
	{Balls: 1, Strikes: 1},
	{Balls: 0, Strikes: 2},
	{Balls: 3, Strikes: 0},
	{Balls: 2, Strikes: 1},
	{Balls: 1, Strikes: 2},
	{Balls: 3, Strikes: 1},
	{Balls: 2, Strikes: 2},
	{Balls: 3, Strikes: 2},
}

// gridPositions maps each count to its canvas coordinate. Ball-heavy counts
// fan right, strike-heavy counts fan left.
var gridPositions = map[model.Count]Position{
	{Balls: 0, Strikes: 0}: {1.5, 4},
	{Balls: 1, Strikes: 0}: {2.75, 3.25},
	{Balls: 0, Strikes: 1}: {0.25, 3.25},
	{Balls: 2, Strikes: 0}: {3.5, 2.5},
	{Balls: 1, Strikes: 1}: {1.5, 2.5},
	{Balls: 0, Strikes: 2}: {-0.5, 2.5},
	{Balls: 3, Strikes: 0}: {3.5, 1.5},
	{Balls: 2, Strikes: 1}: {1.5, 1.5},
	{Balls: 1, Strikes: 2}: {-0.5, 1.5},
	{Balls: 3, Strikes: 1}: {2.75, 0.5},
	{Balls: 2, Strikes: 2}: {0.25, 0.5},
	{Balls: 3, Strikes: 2}: {1.5, 0},
}

// GridPosition returns the canvas coordinate for a count, and false if the
// count is not part of the grid.
func GridPosition(c model.Count) (Position, bool) {
	p, ok := gridPositions[c]
	return p, ok
}

// Transitions lists the 17 count-to-count edges a single pitch can produce
// within the grid. Two-strike fouls self-transition and are not edges.
var Transitions = []Transition{
	{model.Count{Balls: 0, Strikes: 0}, model.Count{Balls: 1, Strikes: 0}},
	{model.Count{Balls: 0, Strikes: 0}, model.Count{Balls: 0, Strikes: 1}},
	{model.Count{Balls: 1, Strikes: 0}, model.Count{Balls: 2, Strikes: 0}},
	{model.Count{Balls: 1, Strikes: 0}, model.Count{Balls: 1, Strikes: 1}},
	{model.Count{Balls: 0, Strikes: 1}, model.Count{Balls: 1, Strikes: 1}},
	{model.Count{Balls: 0, Strikes: 1}, model.Count{Balls: 0, Strikes: 2}},
	{model.Count{Balls: 2, Strikes: 0}, model.Count{Balls: 3, Strikes: 0}},
	{model.Count{Balls: 2, Strikes: 0}, model.Count{Balls: 2, Strikes: 1}},
	{model.Count{Balls: 1, Strikes: 1}, model.Count{Balls: 2, Strikes: 1}},
	{model.Count{Balls: 1, Strikes: 1}, model.Count{Balls: 1, Strikes: 2}},
	{model.Count{Balls: 0, Strikes: 2}, model.Count{Balls: 1, Strikes: 2}},
	{model.Count{Balls: 3, Strikes: 0}, model.Count{Balls: 3, Strikes: 1}},
	{model.Count{Balls: 2, Strikes: 1}, model.Count{Balls: 3, Strikes: 1}},
	{model.Count{Balls: 2, Strikes: 1}, model.Count{Balls: 2, Strikes: 2}},
	{model.Count{Balls: 1, Strikes: 2}, model.Count{Balls: 2, Strikes: 2}},
	{model.Count{Balls: 3, Strikes: 1}, model.Count{Balls: 3, Strikes: 2}},
	{model.Count{Balls: 2, Strikes: 2}, model.Count{Balls: 3, Strikes: 2}},
}

// transitionSet is the valid-edge lookup used by the flow walk.
var transitionSet = func() map[Transition]struct{} {
	set := make(map[Transition]struct{}, len(Transitions))
	for _, t := range Transitions {
		set[t] = struct{}{}
	}
	return set
}()

// ValidTransition reports whether (from, to) is one of the grid edges.
func ValidTransition(from, to model.Count) bool {
	_, ok := transitionSet[Transition{From: from, To: to}]
	return ok
}
