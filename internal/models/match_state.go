package models

// MatchState is a best-of-N series, possibly partially played
type MatchState struct {
	BestOf  int `json:"best_of"`
	FirstTo int `json:"first_to"`
	FramesA int `json:"frames_a"`
	FramesB int `json:"frames_b"`
}

// NewMatchState validates the format and score and builds the state.
// A nil score means the series has not started. A score where exactly one
// side has reached FirstTo is accepted as a decided series.
func NewMatchState(bestOf int, score *ScoreState) (MatchState, error) {
	if bestOf <= 0 || bestOf%2 == 0 {
		return MatchState{}, NewInvalidFormatError(bestOf, "best of must be a positive odd integer")
	}
	state := MatchState{BestOf: bestOf, FirstTo: bestOf/2 + 1}
	if score == nil {
		return state, nil
	}

	a, b := score.SideAWins, score.SideBWins
	switch {
	case a < 0 || b < 0:
		return MatchState{}, NewInvalidScoreStateError(bestOf, a, b, "frame counts cannot be negative")
	case a > state.FirstTo || b > state.FirstTo:
		return MatchState{}, NewInvalidScoreStateError(bestOf, a, b, "score exceeds the winning target")
	case a == state.FirstTo && b == state.FirstTo:
		return MatchState{}, NewInvalidScoreStateError(bestOf, a, b, "both sides cannot reach the winning target")
	case a+b > bestOf:
		return MatchState{}, NewInvalidScoreStateError(bestOf, a, b, "more frames played than the format allows")
	}

	state.FramesA = a
	state.FramesB = b
	return state, nil
}

// FramesPlayed returns the number of frames already completed
func (s MatchState) FramesPlayed() int {
	return s.FramesA + s.FramesB
}

// RemainingA returns the frames side A still needs to win
func (s MatchState) RemainingA() int {
	return s.FirstTo - s.FramesA
}

// RemainingB returns the frames side B still needs to win
func (s MatchState) RemainingB() int {
	return s.FirstTo - s.FramesB
}

// Decided reports whether one side has already won the series
func (s MatchState) Decided() bool {
	return s.RemainingA() <= 0 || s.RemainingB() <= 0 || s.FramesPlayed() >= s.BestOf
}

// InPlay reports whether any frame has been played yet
func (s MatchState) InPlay() bool {
	return s.FramesPlayed() > 0
}
