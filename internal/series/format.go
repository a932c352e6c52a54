package series

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/damirmikic/betting-models/internal/models"
	"github.com/damirmikic/betting-models/internal/numeric"
)

// Format is a first-to-SetsToWin set format
type Format struct {
	Name      string `json:"name"`
	SetsToWin int    `json:"sets_to_win"`
}

// Preset formats
var (
	BestOf5 = Format{Name: "bo5", SetsToWin: 3}
	BestOf7 = Format{Name: "bo7", SetsToWin: 4}
)

// MaxSetsToWin is the largest target whose series fits in MaxBestOf
const MaxSetsToWin = (MaxBestOf + 1) / 2

// Generic builds a first-to-setsToWin format
func Generic(setsToWin int) (Format, error) {
	f := Format{Name: fmt.Sprintf("generic:%d", setsToWin), SetsToWin: setsToWin}
	if err := f.Validate(); err != nil {
		return Format{}, err
	}
	return f, nil
}

// ParseFormat accepts "bo5", "bo7" or "generic:N"
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case BestOf5.Name:
		return BestOf5, nil
	case BestOf7.Name:
		return BestOf7, nil
	}

	if rest, ok := strings.CutPrefix(name, "generic:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Format{}, models.NewInvalidSetsToWinError(0, fmt.Sprintf("cannot parse sets to win from %q", s))
		}
		return Generic(n)
	}
	return Format{}, models.NewInvalidSetsToWinError(0, fmt.Sprintf("unknown format %q", s))
}

// Validate checks the sets-to-win target
func (f Format) Validate() error {
	if f.SetsToWin < 1 || f.SetsToWin > MaxSetsToWin {
		return models.NewInvalidSetsToWinError(f.SetsToWin, fmt.Sprintf("sets to win must be between 1 and %d", MaxSetsToWin))
	}
	return nil
}

// BestOf returns the maximum number of sets in the format
func (f Format) BestOf() int {
	return 2*f.SetsToWin - 1
}

// MatchProbFromSetProb returns the probability of winning the match when
// each set is won independently with probability s.
func MatchProbFromSetProb(f Format, s float64) float64 {
	k := f.SetsToWin
	p := 0.0
	for b := 0; b < k; b++ {
		p += numeric.Binomial(k-1+b, b) * math.Pow(s, float64(k)) * math.Pow(1-s, float64(b))
	}
	return p
}
