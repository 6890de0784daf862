package ingest

import (
	"time"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
)

const dateLayout = "2006-01-02"

// dateRange is an inclusive window of game dates.
type dateRange struct {
	Start string // "YYYY-MM-DD"
	End   string // "YYYY-MM-DD"
}

// seasonChunks splits a season's date window into consecutive inclusive
// ranges of at most chunkDays days. Ranges do not overlap, so replayed
// chunks never double-count a game day.
func seasonChunks(season, chunkDays int) []dateRange {
	startStr, endStr := model.SeasonDates(season)
	start, _ := time.Parse(dateLayout, startStr)
	end, _ := time.Parse(dateLayout, endStr)

	var chunks []dateRange
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, chunkDays) {
		last := cur.AddDate(0, 0, chunkDays-1)
		if last.After(end) {
			last = end
		}
		chunks = append(chunks, dateRange{
			Start: cur.Format(dateLayout),
			End:   last.Format(dateLayout),
		})
	}
	return chunks
}
