package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchPeople looks up players by name via the Stats API people search.
func (c *Client) SearchPeople(ctx context.Context, name string) ([]APIPerson, error) {
	query := url.Values{}
	query.Set("names", name)

	var resp PeopleResponse
	if err := c.getJSON(ctx, "/people/search", query, &resp); err != nil {
		return nil, fmt.Errorf("search people %q: %w", name, err)
	}

	return resp.People, nil
}

// GetSportPlayers fetches every MLB player rostered in a season.
// Sport id 1 is MLB.
func (c *Client) GetSportPlayers(ctx context.Context, season int) ([]APIPerson, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(season))

	var resp PeopleResponse
	if err := c.getJSON(ctx, "/sports/1/players", query, &resp); err != nil {
		return nil, fmt.Errorf("get players for season %d: %w", season, err)
	}

	return resp.People, nil
}

// GetSeasonPitchers fetches the season's players and keeps only pitchers.
func (c *Client) GetSeasonPitchers(ctx context.Context, season int) ([]APIPerson, error) {
	people, err := c.GetSportPlayers(ctx, season)
	if err != nil {
		return nil, err
	}

	pitchers := people[:0]
	for _, p := range people {
		if p.IsPitcher() {
			pitchers = append(pitchers, p)
		}
	}

	return pitchers, nil
}
