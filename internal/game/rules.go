package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lox/playnine/internal/deck"
)

// Rules holds the table constants for a simulation. A Rules value is
// treated as immutable once a run starts; it is shared read-only by every
// worker.
type Rules struct {
	Ranks           []deck.Rank
	Copies          int     // cards of each rank in the deck
	HandSize        int     // cards per hand, also the draw limit per player
	Players         int     // players at the table in ModeRace
	SkipProbability float64 // chance a ModeSolo round is scored as dealt
	SoloDraws       int     // draw-and-maybe-swap steps in ModeSolo
}

// DefaultRules returns the rules of the reference simulation: a 60-card
// deck, 8-card hands, 6 players, a 30% rushed-round chance and 3 solo draws.
func DefaultRules() Rules {
	ranks := make([]deck.Rank, len(deck.StandardRanks))
	copy(ranks, deck.StandardRanks)
	return Rules{
		Ranks:           ranks,
		Copies:          deck.CopiesPerRank,
		HandSize:        deck.HandSize,
		Players:         6,
		SkipProbability: 0.3,
		SoloDraws:       3,
	}
}

// DeckSize returns the number of cards a deck built from these rules holds.
func (r Rules) DeckSize() int {
	return len(r.Ranks) * r.Copies
}

// NewDeck builds and shuffles a deck for one round.
func (r Rules) NewDeck(rng *rand.Rand) *deck.Deck {
	return deck.New(r.Ranks, r.Copies, rng)
}

// Validate checks that the rules describe a playable game.
func (r Rules) Validate() error {
	if len(r.Ranks) == 0 {
		return errors.New("rules: rank set must not be empty")
	}
	if r.Copies < 1 {
		return fmt.Errorf("rules: copies per rank must be positive, got %d", r.Copies)
	}
	if r.HandSize < 1 {
		return fmt.Errorf("rules: hand size must be positive, got %d", r.HandSize)
	}
	if r.Players < 1 {
		return fmt.Errorf("rules: player count must be positive, got %d", r.Players)
	}
	if need := r.Players * r.HandSize; need > r.DeckSize() {
		return fmt.Errorf("rules: dealing %d players %d cards needs %d cards, deck has %d",
			r.Players, r.HandSize, need, r.DeckSize())
	}
	if r.SkipProbability < 0 || r.SkipProbability > 1 {
		return fmt.Errorf("rules: skip probability must be within [0,1], got %g", r.SkipProbability)
	}
	if r.SoloDraws < 0 {
		return fmt.Errorf("rules: solo draws must not be negative, got %d", r.SoloDraws)
	}
	return nil
}
