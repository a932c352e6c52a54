package rally

// PointsModel is the linear set points estimate a + b*competitiveness
type PointsModel struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Config holds the rally model settings
type Config struct {
	SolveTolerance      float64
	SolveMaxIterations  int
	EvenTolerance       float64
	PointsTotalsCount   int
	PointsHandicapCount int
	BalanceTolerance    float64
	PointsModel         PointsModel
}

// DefaultConfig returns the standard rally model settings
func DefaultConfig() Config {
	return Config{
		SolveTolerance:      1e-10,
		SolveMaxIterations:  100,
		EvenTolerance:       1e-6,
		PointsTotalsCount:   1,
		PointsHandicapCount: 1,
		BalanceTolerance:    0.01,
		PointsModel:         PointsModel{A: 15.5, B: 7.5},
	}
}
