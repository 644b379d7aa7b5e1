package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Mode selects how a round is played.
type Mode string

const (
	ModeRace Mode = "race"
	ModeSolo Mode = "solo"
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeRace, ModeSolo}

// ParseMode accepts a mode name. "a" and "b" are accepted as aliases for
// race and solo.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "race", "a", "":
		return ModeRace, nil
	case "solo", "b":
		return ModeSolo, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want race or solo)", s)
	}
}

// Description returns a short human readable summary of the mode.
func (m Mode) Description(r Rules) string {
	switch m {
	case ModeSolo:
		return fmt.Sprintf("solo hand, %d draws, %.0f%% rushed rounds", r.SoloDraws, r.SkipProbability*100)
	default:
		return fmt.Sprintf("%d-player draw race", r.Players)
	}
}

// Round describes one finished round for the tracked player.
type Round struct {
	Score   int
	Draws   int  // cards the tracked player drew
	Swaps   int  // draws that replaced a card in hand
	Skipped bool // ModeSolo round scored as dealt
}

// Play plays one round with a freshly shuffled deck.
func Play(mode Mode, rules Rules, rng *rand.Rand) Round {
	switch mode {
	case ModeSolo:
		return PlaySolo(rules, rng)
	default:
		return PlayRace(rules, rng)
	}
}
