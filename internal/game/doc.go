// Package game plays single rounds of Play Nine for the Monte Carlo driver.
//
// A round deals fresh hands from a newly shuffled deck and returns the
// score of the tracked player's hand (player 0) once the round is over.
// Two rule variants are supported and selected with a Mode:
//
//   - ModeRace: several players are dealt hands round-robin and then take
//     turns drawing from the shared draw pile until every player has drawn
//     a full hand's worth of cards or the pile runs out. Only the tracked
//     player reacts to draws; other players just consume the pile.
//   - ModeSolo: a single hand is dealt. With Rules.SkipProbability the
//     hand is scored as dealt; otherwise Rules.SoloDraws draw-and-maybe-swap
//     steps are played against the rest of the deck.
//
// # Basic Usage
//
//	rules := game.DefaultRules()
//	rng := randutil.New(42)
//	round := game.Play(game.ModeRace, rules, rng)
//	fmt.Println(round.Score)
//
// # Deterministic Testing
//
// All randomness flows through the *rand.Rand passed in. To control the
// card order completely, deal from a prepared deck:
//
//	d := deck.FromCards(cards)
//	state := game.DealRace(rules, d)
//	state.Run()
//
// Reacting to a draw always uses evaluator.BestSwap, a greedy one-step
// heuristic, so results describe that strategy rather than optimal play.
package game
