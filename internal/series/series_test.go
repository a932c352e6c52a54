package series

import (
	"math"
	"testing"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/odds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustState(t *testing.T, bestOf int, score *models.ScoreState) models.MatchState {
	t.Helper()
	state, err := NewState(bestOf, score, MaxBestOf)
	require.NoError(t, err)
	return state
}

func TestComputeBestOfFive(t *testing.T) {
	result, err := Compute(0.6, mustState(t, 5, nil))
	require.NoError(t, err)

	assert.InDelta(t, 0.68256, result.MatchA, 1e-12)
	assert.InDelta(t, 1-0.68256, result.MatchB, 1e-12)
	assert.False(t, result.Decided)

	require.Len(t, result.Frames, 3)
	assert.Equal(t, 3, result.Frames.Min())
	assert.Equal(t, 5, result.Frames.Max())
	assert.InDelta(t, 0.28, result.Frames[0].Prob, 1e-12)
	assert.InDelta(t, 0.3744, result.Frames[1].Prob, 1e-12)
	assert.InDelta(t, 0.3456, result.Frames[2].Prob, 1e-12)
	assert.InDelta(t, 4.0656, result.ExpectedFrames(), 1e-12)

	labels := make([]string, len(result.Scores))
	for i, s := range result.Scores {
		labels[i] = ScoreLabel(s)
	}
	assert.Equal(t, []string{"3-0", "3-1", "3-2", "2-3", "1-3", "0-3"}, labels)
}

func TestComputeEvenIsExactlySymmetric(t *testing.T) {
	for _, bestOf := range []int{1, 3, 5, 7, 9, 11, 19, 35} {
		result, err := Compute(0.5, mustState(t, bestOf, nil))
		require.NoError(t, err)
		assert.Equal(t, result.MatchA, result.MatchB, "best of %d", bestOf)
		assert.Equal(t, 0.5, result.MatchA, "best of %d", bestOf)
	}
}

func TestComputeDistributionSumsToOne(t *testing.T) {
	tests := []struct {
		name   string
		bestOf int
		score  *models.ScoreState
		p      float64
	}{
		{"bo7 fresh", 7, nil, 0.55},
		{"bo7 in play", 7, &models.ScoreState{SideAWins: 2, SideBWins: 1}, 0.45},
		{"bo19 in play", 19, &models.ScoreState{SideAWins: 3, SideBWins: 7}, 0.62},
		{"bo35 fresh", 35, nil, 0.51},
		{"certain frame winner", 9, nil, 1},
		{"hopeless frame loser", 9, &models.ScoreState{SideAWins: 1, SideBWins: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compute(tt.p, mustState(t, tt.bestOf, tt.score))
			require.NoError(t, err)
			assert.InDelta(t, 1.0, result.Frames.Total(), 1e-9)
			assert.InDelta(t, 1.0, result.MatchA+result.MatchB, 1e-9)

			scoreTotal := 0.0
			for _, s := range result.Scores {
				scoreTotal += s.Prob
			}
			assert.InDelta(t, 1.0, scoreTotal, 1e-9)

			aWins := 0.0
			for _, o := range result.Frames {
				aWins += o.ProbAWin
			}
			assert.InDelta(t, result.MatchA, aWins, 1e-9)
		})
	}
}

func TestComputeInPlay(t *testing.T) {
	result, err := Compute(0.5, mustState(t, 7, &models.ScoreState{SideAWins: 2, SideBWins: 1}))
	require.NoError(t, err)

	// A needs two more frames, B needs three
	assert.InDelta(t, 0.6875, result.MatchA, 1e-12)
	assert.Equal(t, 5, result.Frames.Min())
	assert.Equal(t, 7, result.Frames.Max())
	for _, s := range result.Scores {
		assert.GreaterOrEqual(t, s.A, 2)
		assert.GreaterOrEqual(t, s.B, 1)
	}
}

func TestComputeDecidedSeries(t *testing.T) {
	result, err := Compute(0.3, mustState(t, 7, &models.ScoreState{SideAWins: 4, SideBWins: 1}))
	require.NoError(t, err)

	assert.True(t, result.Decided)
	assert.Equal(t, 1.0, result.MatchA)
	assert.Equal(t, 0.0, result.MatchB)
	require.Len(t, result.Frames, 1)
	assert.Equal(t, 5, result.Frames[0].Count)
	assert.Equal(t, 1.0, result.Frames[0].ProbAWin)
	assert.Empty(t, TotalsLines(result, 0.05))
	assert.Empty(t, HandicapLines(result, 0.05))

	result, err = Compute(0.9, mustState(t, 5, &models.ScoreState{SideAWins: 0, SideBWins: 3}))
	require.NoError(t, err)
	assert.True(t, result.Decided)
	assert.Equal(t, 1.0, result.MatchB)
}

func TestComputeRejectsInvalidProbability(t *testing.T) {
	state := mustState(t, 5, nil)
	for _, p := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		_, err := Compute(p, state)
		assert.ErrorIs(t, err, models.ErrInvalidProbability, "p=%v", p)
	}
}

func TestNewStateValidation(t *testing.T) {
	tests := []struct {
		name   string
		bestOf int
		score  *models.ScoreState
		want   error
	}{
		{"even format", 6, nil, models.ErrInvalidFormat},
		{"zero format", 0, nil, models.ErrInvalidFormat},
		{"too long", 37, nil, models.ErrInvalidFormat},
		{"negative score", 7, &models.ScoreState{SideAWins: -1}, models.ErrInvalidScoreState},
		{"past target", 7, &models.ScoreState{SideAWins: 5, SideBWins: 0}, models.ErrInvalidScoreState},
		{"both at target", 7, &models.ScoreState{SideAWins: 4, SideBWins: 4}, models.ErrInvalidScoreState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewState(tt.bestOf, tt.score, MaxBestOf)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTotalsLines(t *testing.T) {
	result, err := Compute(0.6, mustState(t, 5, nil))
	require.NoError(t, err)

	lines := TotalsLines(result, 0.06)
	require.Len(t, lines, 2)
	assert.Equal(t, 3.5, lines[0].Line)
	assert.InDelta(t, 0.72, lines[0].FairA, 1e-12)
	assert.Equal(t, 4.5, lines[1].Line)
	assert.InDelta(t, 0.3456, lines[1].FairA, 1e-12)
	for _, l := range lines {
		assert.InDelta(t, 1.0, l.FairA+l.FairB, 1e-12)
		assert.GreaterOrEqual(t, l.MarginedA, l.FairA)
		assert.GreaterOrEqual(t, l.MarginedB, l.FairB)
	}
}

func TestTotalsLinesLongSeries(t *testing.T) {
	result, err := Compute(0.52, mustState(t, 19, nil))
	require.NoError(t, err)

	lines := TotalsLines(result, 0.05)
	require.Len(t, lines, 5)
	for i := 1; i < len(lines); i++ {
		assert.Equal(t, 1.0, lines[i].Line-lines[i-1].Line)
		assert.Less(t, lines[i].FairA, lines[i-1].FairA)
	}
}

func TestHandicapLines(t *testing.T) {
	result, err := Compute(0.6, mustState(t, 5, nil))
	require.NoError(t, err)

	lines := HandicapLines(result, 0.06)
	require.Len(t, lines, 3)
	assert.Equal(t, 0.5, lines[0].Line)
	assert.InDelta(t, 0.68256, lines[0].FairA, 1e-12)
	assert.Equal(t, 1.5, lines[1].Line)
	assert.InDelta(t, 0.4752, lines[1].FairA, 1e-12)
	assert.Equal(t, 2.5, lines[2].Line)
	assert.InDelta(t, 0.216, lines[2].FairA, 1e-12)
}

func TestPickBalanced(t *testing.T) {
	candidates := []Candidate{
		{Line: 2.5, Over: 0.9},
		{Line: 3.5, Over: 0.52},
		{Line: 4.5, Over: 0.49},
		{Line: 5.5, Over: 0.2},
		{Line: 6.5, Over: 0.515},
	}
	picked := PickBalanced(candidates, 2, 0.01)
	assert.Equal(t, []Candidate{{Line: 4.5, Over: 0.49}, {Line: 6.5, Over: 0.515}}, picked)

	crowded := []Candidate{
		{Line: 3.5, Over: 0.5},
		{Line: 4.5, Over: 0.505},
		{Line: 3.5, Over: 0.5},
		{Line: 5.5, Over: 0.3},
		{Line: 1.5, Over: 1},
	}
	picked = PickBalanced(crowded, 3, 0.01)
	assert.Equal(t, []Candidate{{Line: 3.5, Over: 0.5}, {Line: 5.5, Over: 0.3}}, picked)

	assert.Empty(t, PickBalanced(nil, 2, 0.01))
}

func TestPriceMarkets(t *testing.T) {
	result, err := Compute(0.55, mustState(t, 7, nil))
	require.NoError(t, err)

	margins := odds.MarginConfig{Match: 0.05, Lines: 0.06, MultiWay: 0.2}
	markets := PriceMarkets(result, margins)
	assert.InDelta(t, result.MatchA, markets.Match.FairA, 1e-15)
	assert.InDelta(t, 1.05, markets.Match.MarginedA+markets.Match.MarginedB, 1e-12)
	assert.NotEmpty(t, markets.Totals)
	assert.NotEmpty(t, markets.Handicaps)
	assert.Len(t, markets.CorrectScore.Outcomes, 8)
	assert.InDelta(t, 0.2, markets.CorrectScore.Overround, 1e-9)
}
