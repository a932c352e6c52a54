package datasource

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/damirmikic/betting-models/internal/models"
)

var recordValidator = validator.New()

// ratingRecord is one entry of the ratings feed
type ratingRecord struct {
	ContestantID   string   `json:"contestantId" validate:"required"`
	ContestantName string   `json:"contestantName"`
	CurrentRating  *float64 `json:"currentRating" validate:"required"`
}

// leagueRecord is one league of the baselines file
type leagueRecord struct {
	AvgHome  float64  `json:"avgHome" validate:"gt=0"`
	AvgAway  float64  `json:"avgAway" validate:"gt=0"`
	DrawRate *float64 `json:"drawRate" validate:"omitempty,gt=0,lt=1"`
}

// DecodeRatings parses a ratings JSON array
func DecodeRatings(source string, r io.Reader) ([]models.TeamRating, error) {
	var records []ratingRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, NewDataSourceError(source, ErrCodeInvalidData, "failed to decode ratings", err)
	}

	ratings := make([]models.TeamRating, 0, len(records))
	for i, rec := range records {
		if err := recordValidator.Struct(rec); err != nil {
			return nil, NewDataSourceError(source, ErrCodeInvalidData, fmt.Sprintf("rating %d is invalid", i), err)
		}
		ratings = append(ratings, models.TeamRating{
			ID:            rec.ContestantID,
			DisplayName:   rec.ContestantName,
			CurrentRating: *rec.CurrentRating,
		})
	}
	return ratings, nil
}

// DecodeLeagues parses a JSON object of league baselines keyed by name
func DecodeLeagues(source string, r io.Reader) (map[string]models.LeagueBaseline, error) {
	var records map[string]leagueRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, NewDataSourceError(source, ErrCodeInvalidData, "failed to decode leagues", err)
	}

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	leagues := make(map[string]models.LeagueBaseline, len(records))
	for _, name := range names {
		rec := records[name]
		if err := recordValidator.Struct(rec); err != nil {
			return nil, NewDataSourceError(source, ErrCodeInvalidData, fmt.Sprintf("league %q is invalid", name), err)
		}
		leagues[name] = models.LeagueBaseline{
			Name:         name,
			AvgHomeGoals: rec.AvgHome,
			AvgAwayGoals: rec.AvgAway,
			DrawRate:     rec.DrawRate,
		}
	}
	return leagues, nil
}
