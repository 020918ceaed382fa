package core

import "fmt"

const (
	MinDie = 1
	MaxDie = 6

	// RollOutcomes is the number of equiprobable ordered rolls of two dice
	RollOutcomes = MaxDie * MaxDie
)

// ValidateDie checks that v is a face of a six-sided die
func ValidateDie(v int) error {
	if v < MinDie || v > MaxDie {
		return fmt.Errorf("%w: got %d", ErrInvalidDie, v)
	}
	return nil
}

// DiePair is an unordered roll. Weight is 1 for doubles and 2 otherwise, so
// the weights over all pairs sum to RollOutcomes.
type DiePair struct {
	Low, High int
	Weight    int
}

var diePairs = buildDiePairs()

func buildDiePairs() []DiePair {
	pairs := make([]DiePair, 0, 21)
	for low := MinDie; low <= MaxDie; low++ {
		for high := low; high <= MaxDie; high++ {
			w := 2
			if low == high {
				w = 1
			}
			pairs = append(pairs, DiePair{Low: low, High: high, Weight: w})
		}
	}
	return pairs
}

// DiePairs returns the 21 unordered die pairs. The slice is shared; do not modify.
func DiePairs() []DiePair {
	return diePairs
}
