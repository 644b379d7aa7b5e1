package game

import (
	"math/rand/v2"

	"github.com/lox/playnine/internal/deck"
	"github.com/lox/playnine/internal/evaluator"
)

// PlaySolo plays a ModeSolo round on a fresh deck.
func PlaySolo(rules Rules, rng *rand.Rand) Round {
	return PlaySoloFrom(rules, rules.NewDeck(rng), rng)
}

// PlaySoloFrom deals one hand from d. The rushed-round coin flip is taken
// from rng after the deal.
func PlaySoloFrom(rules Rules, d *deck.Deck, rng *rand.Rand) Round {
	hand := deck.Hand(d.DrawN(rules.HandSize))

	if rng.Float64() < rules.SkipProbability {
		return Round{Score: evaluator.Score(hand), Skipped: true}
	}

	var round Round
	for i := 0; i < rules.SoloDraws; i++ {
		card, ok := d.Draw()
		if !ok {
			break
		}
		round.Draws++
		if evaluator.ApplyBestSwap(hand, card) != evaluator.NoSwap {
			round.Swaps++
		}
	}
	round.Score = evaluator.Score(hand)
	return round
}
