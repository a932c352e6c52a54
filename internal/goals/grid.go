package goals

import (
	"fmt"
	"sort"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

// JointPMF returns P(X=i, Y=j) for the bivariate Poisson built from
// independent sources with rates l1, l2 and the shared rate l3.
func JointPMF(i, j int, l1, l2, l3 float64) float64 {
	if i < 0 || j < 0 {
		return 0
	}
	n := i
	if j > n {
		n = j
	}
	return convolve(i, j, numeric.PoissonPMF(l1, n), numeric.PoissonPMF(l2, n), numeric.PoissonPMF(l3, n))
}

func convolve(i, j int, p1, p2, p3 []float64) float64 {
	k := i
	if j < k {
		k = j
	}
	sum := 0.0
	for m := 0; m <= k; m++ {
		sum += p1[i-m] * p2[j-m] * p3[m]
	}
	return sum
}

// Grid is the joint score distribution truncated at Cap goals per side and
// renormalised to total mass 1. Cells[i][j] is P(home=i, away=j).
type Grid struct {
	Cap         int
	Correlation float64
	Cells       [][]float64
}

// NewGrid builds the score grid keeping the marginal means at the given
// rates: the independent sources are rates.Home-l3 and rates.Away-l3.
func NewGrid(rates Rates, l3 float64, goalCap int) (Grid, error) {
	if err := rates.Validate(); err != nil {
		return Grid{}, err
	}
	if !numeric.IsFinite(l3) || l3 < 0 || l3 > rates.CorrelationBound() {
		return Grid{}, models.NewNumericDegeneracyError("goal correlation", l3,
			fmt.Sprintf("shared rate must lie in [0, %g]", rates.CorrelationBound()), nil)
	}
	if goalCap < 1 {
		return Grid{}, models.NewNumericDegeneracyError("goal cap", float64(goalCap), "grid needs at least one goal per side", nil)
	}

	p1 := numeric.PoissonPMF(rates.Home-l3, goalCap)
	p2 := numeric.PoissonPMF(rates.Away-l3, goalCap)
	p3 := numeric.PoissonPMF(l3, goalCap)

	cells := make([][]float64, goalCap+1)
	total := 0.0
	for i := 0; i <= goalCap; i++ {
		cells[i] = make([]float64, goalCap+1)
		for j := 0; j <= goalCap; j++ {
			cells[i][j] = convolve(i, j, p1, p2, p3)
			total += cells[i][j]
		}
	}
	if !(total > 0) || !numeric.IsFinite(total) {
		return Grid{}, models.NewNumericDegeneracyError("goal grid mass", total, "joint distribution has no mass", nil)
	}
	for i := range cells {
		for j := range cells[i] {
			cells[i][j] /= total
		}
	}

	return Grid{Cap: goalCap, Correlation: l3, Cells: cells}, nil
}

// Outcome is the 1X2 split of a fixture
type Outcome struct {
	PHome float64 `json:"p_home"`
	PDraw float64 `json:"p_draw"`
	PAway float64 `json:"p_away"`
}

// Outcome sums the grid into home win, draw and away win
func (g Grid) Outcome() Outcome {
	var o Outcome
	for i, row := range g.Cells {
		for j, p := range row {
			switch {
			case i > j:
				o.PHome += p
			case i == j:
				o.PDraw += p
			default:
				o.PAway += p
			}
		}
	}
	return o
}

// Draw returns the probability of level scores
func (g Grid) Draw() float64 {
	draw := 0.0
	for i := range g.Cells {
		draw += g.Cells[i][i]
	}
	return draw
}

// TotalGoals returns the distribution of home+away goals
func (g Grid) TotalGoals() models.Distribution {
	dist := make(models.Distribution, 2*g.Cap+1)
	for n := range dist {
		dist[n].Count = n
	}
	for i, row := range g.Cells {
		for j, p := range row {
			dist[i+j].Prob += p
			switch {
			case i > j:
				dist[i+j].ProbAWin += p
			case j > i:
				dist[i+j].ProbBWin += p
			}
		}
	}
	return dist
}

// BothScore returns the probability that both sides score
func (g Grid) BothScore() float64 {
	btts := 0.0
	for i := 1; i < len(g.Cells); i++ {
		for j := 1; j < len(g.Cells[i]); j++ {
			btts += g.Cells[i][j]
		}
	}
	return btts
}

// TopScores returns the n most likely scores, most likely first
func (g Grid) TopScores(n int) []models.ScoreOutcome {
	scores := make([]models.ScoreOutcome, 0, len(g.Cells)*len(g.Cells))
	for i, row := range g.Cells {
		for j, p := range row {
			scores = append(scores, models.ScoreOutcome{A: i, B: j, Prob: p})
		}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].Prob > scores[b].Prob
	})
	if n >= 0 && n < len(scores) {
		scores = scores[:n]
	}
	return scores
}
