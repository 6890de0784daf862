// apicheck exercises the live MLB endpoints without touching a database.
// Usage: go run ./cmd/apicheck -name "kershaw" [-season 2024] [-days 7]
//
// It searches the Stats API for the name, prints matching pitchers, and
// fetches a short statcast window for the first match to verify the Savant
// CSV parses end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/andrewchiang3/pitcher-plinko/internal/api"
	"github.com/andrewchiang3/pitcher-plinko/internal/config"
	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/plinko"
)

func main() {
	name := flag.String("name", "", "pitcher name to search (required)")
	season := flag.Int("season", time.Now().Year()-1, "season to sample")
	days := flag.Int("days", 7, "days of statcast data to fetch")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: apicheck -name <pitcher> [-season <year>] [-days <n>]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := api.NewClient(
		config.DefaultStatsURL,
		config.DefaultSavantURL,
		api.WithLogger(logger),
	)

	people, err := client.SearchPeople(ctx, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "people search failed: %v\n", err)
		os.Exit(1)
	}

	var pitchers []api.APIPerson
	for _, p := range people {
		if p.IsPitcher() {
			pitchers = append(pitchers, p)
		}
	}

	fmt.Printf("%d people matched, %d pitchers:\n", len(people), len(pitchers))
	for _, p := range pitchers {
		fmt.Printf("  %d  %-30s throws %s\n", p.ID, p.FullName, p.PitchHand.Code)
	}
	if len(pitchers) == 0 {
		os.Exit(1)
	}

	target := pitchers[0]
	start, _ := model.SeasonDates(*season)
	startDay, _ := time.Parse("2006-01-02", start)
	// Sample from mid-season so the window has games in it.
	from := startDay.AddDate(0, 3, 0)
	to := from.AddDate(0, 0, *days-1)

	fmt.Printf("\nfetching statcast for %s, %s..%s\n",
		target.FullName, from.Format("2006-01-02"), to.Format("2006-01-02"))

	rows, err := client.GetPitcherStatcast(ctx, target.ID,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "statcast fetch failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("parsed %d pitches\n", len(rows))

	pitches := make([]model.Pitch, 0, len(rows))
	now := time.Now()
	for _, r := range rows {
		pitches = append(pitches, r.ToPitch(target.ID, now))
	}

	chart := plinko.Build(pitches, target.FullName, *season)
	fmt.Printf("\narsenal over the window (%d labeled pitches):\n", chart.Summary.TotalPitches)
	for _, ts := range chart.Summary.Types {
		fmt.Printf("  %-4s %-18s %5.1f%%  avg %.1f mph\n",
			ts.PitchType, ts.Name, ts.Share*100, ts.AvgSpeed)
	}
}
