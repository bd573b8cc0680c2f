package game

import (
	"fmt"
	"strings"
)

// Difficulty selects the guess range and the score multiplier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Difficulties lists every valid difficulty in display order.
var Difficulties = []Difficulty{Easy, Normal, Hard}

var ranges = map[Difficulty]Range{
	Easy:   {Min: 1, Max: 50},
	Normal: {Min: 1, Max: 100},
	Hard:   {Min: 1, Max: 200},
}

// aliases maps accepted labels (including the original Korean UI labels) to difficulties.
var aliases = map[string]Difficulty{
	"easy":   Easy,
	"normal": Normal,
	"hard":   Hard,
	"쉬움":     Easy,
	"보통":     Normal,
	"어려움":    Hard,
}

// RangeFor returns the inclusive number range for d.
func RangeFor(d Difficulty) (Range, error) {
	r, ok := ranges[d]
	if !ok {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
	}
	return r, nil
}

// ParseDifficulty maps a UI label to a Difficulty. Unknown labels are an error,
// never a silent default.
func ParseDifficulty(label string) (Difficulty, error) {
	key := strings.TrimSpace(label)
	if d, ok := aliases[strings.ToLower(key)]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, label)
}
