package rules

import (
	"fmt"
	"strings"
)

// Difficulty controls how much water the board generator lays down and how
// quickly the score decays.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
	DifficultyImpossible
)

var difficultyLabels = [...]string{"Easy", "Normal", "Hard", "Impossible"}

func (d Difficulty) String() string {
	if d.Valid() {
		return difficultyLabels[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// Valid reports whether d is one of the four defined levels
func (d Difficulty) Valid() bool {
	return d >= DifficultyEasy && d <= DifficultyImpossible
}

// ParseDifficulty accepts a label ("hard") or a level number ("2")
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	for i, label := range difficultyLabels {
		if strings.EqualFold(s, label) || s == fmt.Sprint(i) {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// ScoreDecay is the number of points lost per full round: 8/4/2/1 from Easy
// to Impossible.
func ScoreDecay(d Difficulty) int {
	return 1 << uint(DifficultyImpossible-d)
}

// Score returns the points still available after the given round, never below zero.
func Score(maxScore, round int, d Difficulty) int {
	score := maxScore - round*ScoreDecay(d)
	if score < 0 {
		return 0
	}
	return score
}
