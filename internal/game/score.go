package game

import "fmt"

const (
	baseScore      = 1000
	attemptPenalty = 50
	secondPenalty  = 2
)

// multiplier is expressed in halves so the computation stays in integers:
// Easy ×1.0, Normal ×1.5, Hard ×2.0.
var multiplier = map[Difficulty]int{
	Easy:   2,
	Normal: 3,
	Hard:   4,
}

// Multiplier returns the score factor for d as a float for display.
func Multiplier(d Difficulty) (float64, error) {
	m, ok := multiplier[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
	}
	return float64(m) / 2, nil
}

// Score computes the points for a won round:
//
//	(1000 - attempts*50 - elapsedSeconds*2) * multiplier, floored, clamped at 0.
//
// Negative inputs count as zero.
func Score(attempts, elapsedSeconds int, d Difficulty) (int, error) {
	m, ok := multiplier[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
	}
	attempts = max(attempts, 0)
	elapsedSeconds = max(elapsedSeconds, 0)

	raw := baseScore - attempts*attemptPenalty - elapsedSeconds*secondPenalty
	if raw <= 0 {
		return 0, nil
	}
	return raw * m / 2, nil
}
