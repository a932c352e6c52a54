package models

// Calibration methods
const (
	CalibrationDefault     = "default"
	CalibrationIndependent = "independent"
	CalibrationBisection   = "bisection"
	CalibrationCeiling     = "ceiling"
)

// CalibrationResult is a scalar model parameter produced by an iterative
// search together with the bracket it was found in.
type CalibrationResult struct {
	Value      float64 `json:"value"`
	Lower      float64 `json:"lower"`
	Upper      float64 `json:"upper"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
	Converged  bool    `json:"converged"`
	Method     string  `json:"method"`
}

// InBracket reports whether Value lies within [Lower, Upper]
func (c CalibrationResult) InBracket() bool {
	return c.Value >= c.Lower && c.Value <= c.Upper
}
