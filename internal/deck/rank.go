package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// Rank is the face value printed on a Play Nine card. Ranks are values, not
// identities: a deck holds several cards of every rank.
type Rank int

// StandardRanks is the rank set of a Play Nine deck.
var StandardRanks = []Rank{-5, -3, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// CopiesPerRank is how many cards of each rank a standard deck carries.
const CopiesPerRank = 4

// HandSize is the number of cards in a player's hand.
const HandSize = 8

func (r Rank) String() string {
	return strconv.Itoa(int(r))
}

// Hand is an ordered set of ranks held by one player. Order only matters
// for identifying the slot a swap replaces.
type Hand []Rank

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, r := range h {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ParseRanks parses a comma or space separated list such as "-5, 0, 12".
func ParseRanks(s string) ([]Rank, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ranks := make([]Rank, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid rank %q: %w", f, err)
		}
		ranks = append(ranks, Rank(v))
	}
	return ranks, nil
}
