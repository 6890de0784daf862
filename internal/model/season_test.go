package model

import (
	"testing"
	"time"
)

func TestSeasonDates(t *testing.T) {
	start, end := SeasonDates(2024)
	if start != "2024-03-01" || end != "2024-10-01" {
		t.Errorf("SeasonDates(2024) = %q, %q", start, end)
	}
}

func TestAvailableSeasons(t *testing.T) {
	seasons := AvailableSeasons()
	if len(seasons) == 0 {
		t.Fatal("no available seasons")
	}
	if seasons[0] != time.Now().Year() {
		t.Errorf("first season = %d, want current year", seasons[0])
	}
	for i := 1; i < len(seasons); i++ {
		if seasons[i] != seasons[i-1]-1 {
			t.Errorf("seasons not consecutive descending: %v", seasons)
		}
	}
}

func TestValidSeason(t *testing.T) {
	if ValidSeason(2007) {
		t.Error("2007 predates pitch-level data")
	}
	if !ValidSeason(2024) {
		t.Error("2024 should be valid")
	}
	if ValidSeason(time.Now().Year() + 1) {
		t.Error("future season should be invalid")
	}
}
