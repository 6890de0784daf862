package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// statcastColumns are the CSV columns the parser consumes. Savant returns
// ~90 columns; everything else is ignored.
var statcastColumns = []string{
	"pitch_type",
	"game_date",
	"release_speed",
	"balls",
	"strikes",
	"events",
	"description",
	"game_pk",
	"at_bat_number",
	"pitch_number",
}

// GetPitcherStatcast fetches pitch-by-pitch data for one pitcher over a date
// window. Dates are inclusive, formatted "YYYY-MM-DD". Savant truncates very
// large result sets, so callers chunk long windows (see internal/ingest).
func (c *Client) GetPitcherStatcast(ctx context.Context, pitcherID int64, startDate, endDate string) ([]StatcastRow, error) {
	query := url.Values{}
	query.Set("all", "true")
	query.Set("player_type", "pitcher")
	query.Set("pitchers_lookup[]", strconv.FormatInt(pitcherID, 10))
	query.Set("game_date_gt", startDate)
	query.Set("game_date_lt", endDate)
	query.Set("type", "details")
	query.Set("minors", "false")

	body, err := c.getCSV(ctx, "/statcast_search/csv", query)
	if err != nil {
		return nil, fmt.Errorf("get statcast for pitcher %d: %w", pitcherID, err)
	}

	rows, err := c.parseStatcastCSV(body)
	if err != nil {
		return nil, fmt.Errorf("parse statcast for pitcher %d: %w", pitcherID, err)
	}

	return rows, nil
}

// parseStatcastCSV decodes the Savant CSV body. Rows with unparseable
// numeric fields are skipped with a warning rather than failing the fetch;
// Savant occasionally ships blank or "null" cells.
func (c *Client) parseStatcastCSV(body []byte) ([]StatcastRow, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range statcastColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv missing column %q", name)
		}
	}

	var (
		rows    []StatcastRow
		skipped int
	)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		row, ok := parseStatcastRow(record, cols)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		c.logger.Warn("skipped malformed statcast rows",
			"skipped", skipped,
			"parsed", len(rows),
		)
	}

	return rows, nil
}

func parseStatcastRow(record []string, cols map[string]int) (StatcastRow, bool) {
	field := func(name string) string {
		i := cols[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	gamePK, err := strconv.ParseInt(field("game_pk"), 10, 64)
	if err != nil {
		return StatcastRow{}, false
	}
	balls, err := strconv.Atoi(field("balls"))
	if err != nil {
		return StatcastRow{}, false
	}
	strikes, err := strconv.Atoi(field("strikes"))
	if err != nil {
		return StatcastRow{}, false
	}
	atBat, err := strconv.Atoi(field("at_bat_number"))
	if err != nil {
		return StatcastRow{}, false
	}
	pitchNum, err := strconv.Atoi(field("pitch_number"))
	if err != nil {
		return StatcastRow{}, false
	}

	// release_speed is blank for some tracked pitches; treat as 0.
	speed := 0.0
	if s := field("release_speed"); s != "" && s != "null" {
		speed, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return StatcastRow{}, false
		}
	}

	return StatcastRow{
		PitchType:    field("pitch_type"),
		GameDate:     field("game_date"),
		ReleaseSpeed: speed,
		Balls:        balls,
		Strikes:      strikes,
		Events:       field("events"),
		Description:  field("description"),
		GamePK:       gamePK,
		AtBatNumber:  atBat,
		PitchNumber:  pitchNum,
	}, true
}
