// Package evaluator scores Play Nine hands and picks greedy swaps.
package evaluator

import "github.com/lox/playnine/internal/deck"

// Score returns the value of a hand. Ranks held an even number of times
// cancel out; each rank held an odd number of times adds its face value
// once. Lower is better.
func Score(hand deck.Hand) int {
	score := 0
	for i, r := range hand {
		if seenBefore(hand, i) {
			continue
		}
		count := 1
		for _, other := range hand[i+1:] {
			if other == r {
				count++
			}
		}
		if count%2 == 1 {
			score += int(r)
		}
	}
	return score
}

// seenBefore reports whether hand[i] already occurred at a lower index.
func seenBefore(hand deck.Hand, i int) bool {
	for _, r := range hand[:i] {
		if r == hand[i] {
			return true
		}
	}
	return false
}
