package main

import (
	"fmt"

	"github.com/lox/playnine/internal/config"
	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/simulator"
)

// SimFlags override values from the config file. Unset flags leave the
// file (or the built-in default) alone.
type SimFlags struct {
	Target      *int    `short:"t" env:"PLAYNINE_TARGET" help:"Target total score across all rounds (default 6)"`
	Rounds      *int    `short:"r" env:"PLAYNINE_ROUNDS" help:"Rounds per game (default 7)"`
	Simulations *int    `short:"n" env:"PLAYNINE_SIMULATIONS" help:"Number of games to simulate"`
	Predicate   *string `short:"p" env:"PLAYNINE_PREDICATE" help:"Match rule: eq (total equals target) or le (total at most target)"`
	Mode        *string `short:"m" env:"PLAYNINE_MODE" help:"Round model: race (6-player draw race) or solo (single hand, few draws)"`
	Seed        *int64  `short:"s" env:"PLAYNINE_SEED" help:"RNG seed (random when unset or 0)"`
	Workers     *int    `short:"w" env:"PLAYNINE_WORKERS" help:"Parallel workers (default GOMAXPROCS)"`
}

// load builds the run configuration: built-in defaults, then the config
// file, then flags.
func (f *SimFlags) load(g *Globals, simulations int) (simulator.Config, error) {
	base := simulator.DefaultConfig()
	base.Simulations = simulations

	file, err := config.Load(g.Config)
	if err != nil {
		return base, err
	}
	cfg, err := file.Apply(base)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", g.Config, err)
	}

	if f.Target != nil {
		cfg.TargetScore = *f.Target
	}
	if f.Rounds != nil {
		cfg.Rounds = *f.Rounds
	}
	if f.Simulations != nil {
		cfg.Simulations = *f.Simulations
	}
	if f.Predicate != nil {
		if cfg.Predicate, err = simulator.ParsePredicate(*f.Predicate); err != nil {
			return cfg, err
		}
	}
	if f.Mode != nil {
		if cfg.Mode, err = game.ParseMode(*f.Mode); err != nil {
			return cfg, err
		}
	}
	if f.Seed != nil {
		cfg.Seed = *f.Seed
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}

	return cfg, config.Validate(cfg)
}
