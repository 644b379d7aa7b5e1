package evaluator

import "github.com/lox/playnine/internal/deck"

// NoSwap is returned by BestSwap when no replacement improves the hand.
const NoSwap = -1

// BestSwap returns the slot whose replacement by drawn gives the lowest
// score, or NoSwap if no single replacement is strictly better than keeping
// the hand. Ties keep the lowest slot index.
//
// This is a one-step greedy search; it never looks at rearrangements or
// future draws.
func BestSwap(hand deck.Hand, drawn deck.Rank) int {
	best := Score(hand)
	bestPos := NoSwap

	trial := hand.Clone()
	for i := range hand {
		if hand[i] == drawn {
			continue
		}
		trial[i] = drawn
		if s := Score(trial); s < best {
			best = s
			bestPos = i
		}
		trial[i] = hand[i]
	}
	return bestPos
}

// ApplyBestSwap replaces the best slot in hand with drawn, if any, and
// reports the slot used.
func ApplyBestSwap(hand deck.Hand, drawn deck.Rank) int {
	pos := BestSwap(hand, drawn)
	if pos != NoSwap {
		hand[pos] = drawn
	}
	return pos
}
