package api

// PeopleResponse from GET /people/search and GET /sports/1/players
type PeopleResponse struct {
	People []APIPerson `json:"people"`
}

// APIPerson represents a player from the MLB Stats API.
type APIPerson struct {
	ID              int64       `json:"id"`
	FullName        string      `json:"fullName"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	UseName         string      `json:"useName"`
	Active          bool        `json:"active"`
	PrimaryPosition APIPosition `json:"primaryPosition"`
	PitchHand       APIHand     `json:"pitchHand"`
}

// APIPosition is a player's primary position.
type APIPosition struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// APIHand is a throwing or batting hand.
type APIHand struct {
	Code string `json:"code"`
}

// IsPitcher reports whether the player's primary position is pitcher
// (position code "1") or two-way player ("Y").
func (p APIPerson) IsPitcher() bool {
	return p.PrimaryPosition.Code == "1" || p.PrimaryPosition.Code == "Y"
}

// StatcastRow is one pitch parsed from the Savant statcast_search CSV.
type StatcastRow struct {
	PitchType    string  // pitch_type column, may be empty
	GameDate     string  // game_date ("YYYY-MM-DD")
	ReleaseSpeed float64 // release_speed in mph, 0 if missing
	Balls        int     // balls before the pitch
	Strikes      int     // strikes before the pitch
	Events       string  // at-bat outcome (final pitch only)
	Description  string  // pitch outcome
	GamePK       int64   // game_pk
	AtBatNumber  int     // at_bat_number
	PitchNumber  int     // pitch_number
}
