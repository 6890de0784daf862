package model

import "fmt"

// Count is a ball-strike state within an at-bat.
type Count struct {
	Balls   int
	Strikes int
}

// String formats the count as "B-S" (e.g. "1-2").
func (c Count) String() string {
	return fmt.Sprintf("%d-%d", c.Balls, c.Strikes)
}

// Valid reports whether the count is one of the 12 states a pitch can be
// thrown in (0-3 balls, 0-2 strikes). Four balls or three strikes end the
// at-bat, so no pitch is ever thrown in those states.
func (c Count) Valid() bool {
	return c.Balls >= 0 && c.Balls <= 3 && c.Strikes >= 0 && c.Strikes <= 2
}

// OnBall returns the count after a ball, and false if the ball ends the
// at-bat (a walk).
func (c Count) OnBall() (Count, bool) {
	if c.Balls >= 3 {
		return Count{}, false
	}
	return Count{Balls: c.Balls + 1, Strikes: c.Strikes}, true
}

// OnStrike returns the count after a strike, and false if the strike ends
// the at-bat. A foul with two strikes keeps the count, which this models as
// a self-transition.
func (c Count) OnStrike(foul bool) (Count, bool) {
	if c.Strikes >= 2 {
		if foul {
			return c, true
		}
		return Count{}, false
	}
	return Count{Balls: c.Balls, Strikes: c.Strikes + 1}, true
}

// ParseCount parses a "B-S" string.
func ParseCount(s string) (Count, error) {
	var c Count
	if _, err := fmt.Sscanf(s, "%d-%d", &c.Balls, &c.Strikes); err != nil {
		return Count{}, fmt.Errorf("parse count %q: %w", s, err)
	}
	if !c.Valid() {
		return Count{}, fmt.Errorf("count %q out of range", s)
	}
	return c, nil
}
