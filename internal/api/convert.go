package api

import (
	"time"

	"github.com/andrewchiang3/pitcher-plinko/internal/model"
	"github.com/andrewchiang3/pitcher-plinko/internal/normalize"
)

// ToPitcher converts an APIPerson to a model.Pitcher.
func (p APIPerson) ToPitcher() model.Pitcher {
	first := p.UseName
	if first == "" {
		first = p.FirstName
	}

	return model.Pitcher{
		ID:             p.ID,
		FirstName:      first,
		LastName:       p.LastName,
		FullName:       p.FullName,
		NormalizedName: normalize.Fold(p.FullName),
		Throws:         p.PitchHand.Code,
		UpdatedAt:      time.Now().UnixMicro(),
	}
}

// ToPitch converts a StatcastRow to a model.Pitch owned by the given pitcher.
func (r StatcastRow) ToPitch(pitcherID int64, receivedAt time.Time) model.Pitch {
	return model.Pitch{
		PitcherID:    pitcherID,
		GamePK:       r.GamePK,
		AtBatNumber:  r.AtBatNumber,
		PitchNumber:  r.PitchNumber,
		GameDate:     r.GameDate,
		Balls:        r.Balls,
		Strikes:      r.Strikes,
		PitchType:    r.PitchType,
		ReleaseSpeed: r.ReleaseSpeed,
		Description:  r.Description,
		Events:       r.Events,
		ReceivedAt:   receivedAt.UnixMicro(),
	}
}
