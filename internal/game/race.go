package game

import (
	"math/rand/v2"

	"github.com/lox/playnine/internal/deck"
	"github.com/lox/playnine/internal/evaluator"
)

// TrackedPlayer is the seat whose score a round reports.
const TrackedPlayer = 0

// RaceState is a ModeRace round in progress. The draw pile is the deck the
// hands were dealt from and is consumed strictly in order.
type RaceState struct {
	Rules Rules
	Hands []deck.Hand
	Pile  *deck.Deck
	Drawn []int // cards drawn per player, never above Rules.HandSize
	Swaps int   // swaps made by the tracked player
}

// DealRace deals Rules.HandSize cards to each player round-robin from d.
func DealRace(rules Rules, d *deck.Deck) *RaceState {
	s := &RaceState{
		Rules: rules,
		Hands: make([]deck.Hand, rules.Players),
		Pile:  d,
		Drawn: make([]int, rules.Players),
	}
	for p := range s.Hands {
		s.Hands[p] = make(deck.Hand, 0, rules.HandSize)
	}
	for i := 0; i < rules.HandSize; i++ {
		for p := range s.Hands {
			card, ok := d.Draw()
			if !ok {
				return s
			}
			s.Hands[p] = append(s.Hands[p], card)
		}
	}
	return s
}

// Done reports whether the round is over: every player has drawn a full
// hand's worth of cards or the draw pile is empty.
func (s *RaceState) Done() bool {
	if s.Pile.IsEmpty() {
		return true
	}
	for _, n := range s.Drawn {
		if n < s.Rules.HandSize {
			return false
		}
	}
	return true
}

// Turn gives player p one draw if they are still allowed one. It reports
// whether a card was drawn.
func (s *RaceState) Turn(p int) bool {
	if s.Drawn[p] >= s.Rules.HandSize {
		return false
	}
	card, ok := s.Pile.Draw()
	if !ok {
		return false
	}
	if p == TrackedPlayer {
		if evaluator.ApplyBestSwap(s.Hands[p], card) != evaluator.NoSwap {
			s.Swaps++
		}
	}
	s.Drawn[p]++
	return true
}

// Cycle gives every player one turn in seat order.
func (s *RaceState) Cycle() {
	for p := range s.Hands {
		s.Turn(p)
	}
}

// Run cycles until the round is over.
func (s *RaceState) Run() {
	for !s.Done() {
		s.Cycle()
	}
}

// Score returns the tracked player's hand score.
func (s *RaceState) Score() int {
	return evaluator.Score(s.Hands[TrackedPlayer])
}

// Round summarises the finished round for the tracked player.
func (s *RaceState) Round() Round {
	return Round{
		Score: s.Score(),
		Draws: s.Drawn[TrackedPlayer],
		Swaps: s.Swaps,
	}
}

// PlayRace plays a full ModeRace round on a fresh deck.
func PlayRace(rules Rules, rng *rand.Rand) Round {
	s := DealRace(rules, rules.NewDeck(rng))
	s.Run()
	return s.Round()
}
