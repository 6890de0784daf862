package model

import (
	"fmt"
	"time"
)

// EarliestSeason is the first season with Savant pitch-level data.
const EarliestSeason = 2008

// SeasonDates returns the inclusive fetch window for a season. March 1
// through October 1 covers the regular season.
func SeasonDates(year int) (start, end string) {
	return fmt.Sprintf("%d-03-01", year), fmt.Sprintf("%d-10-01", year)
}

// AvailableSeasons lists selectable seasons, newest first.
func AvailableSeasons() []int {
	current := time.Now().Year()
	seasons := make([]int, 0, 6)
	for y := current; y > current-6 && y >= EarliestSeason; y-- {
		seasons = append(seasons, y)
	}
	return seasons
}

// ValidSeason reports whether a season can be loaded.
func ValidSeason(year int) bool {
	return year >= EarliestSeason && year <= time.Now().Year()
}
