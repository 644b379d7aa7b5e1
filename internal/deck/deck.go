package deck

import (
	"math/rand/v2"
)

// Deck is a shuffled multiset of ranks consumed front to back. Once a card
// has been drawn it is gone; a Deck is never replenished.
type Deck struct {
	cards []Rank
	next  int
}

// New builds a deck with copies of every rank and shuffles it with rng.
func New(ranks []Rank, copies int, rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Rank, 0, len(ranks)*copies)}
	for _, r := range ranks {
		for i := 0; i < copies; i++ {
			d.cards = append(d.cards, r)
		}
	}
	d.shuffle(rng)
	return d
}

// NewStandard builds and shuffles the 60-card Play Nine deck.
func NewStandard(rng *rand.Rand) *Deck {
	return New(StandardRanks, CopiesPerRank, rng)
}

// FromCards returns an unshuffled deck that draws cards in the given order.
func FromCards(cards []Rank) *Deck {
	d := &Deck{cards: make([]Rank, len(cards))}
	copy(d.cards, cards)
	return d
}

func (d *Deck) shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card of the deck.
func (d *Deck) Draw() (Rank, bool) {
	if d.next >= len(d.cards) {
		return 0, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// DrawN draws up to n cards.
func (d *Deck) DrawN(n int) []Rank {
	if n > d.Remaining() {
		n = d.Remaining()
	}
	out := make([]Rank, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out
}

// Remaining returns the number of cards left to draw.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// IsEmpty reports whether every card has been drawn.
func (d *Deck) IsEmpty() bool {
	return d.Remaining() == 0
}

// Size returns the number of cards the deck was built with.
func (d *Deck) Size() int {
	return len(d.cards)
}

// Peek returns the top card without drawing it.
func (d *Deck) Peek() (Rank, bool) {
	if d.IsEmpty() {
		return 0, false
	}
	return d.cards[d.next], true
}
