// Package config loads simulation settings from HCL files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/playnine/internal/deck"
	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/simulator"
)

// DefaultFile is the config file read when none is given explicitly.
const DefaultFile = "playnine.hcl"

// File is the decoded form of a playnine.hcl file. Every attribute is
// optional; unset values leave the defaults alone.
type File struct {
	Simulation *SimulationBlock `hcl:"simulation,block"`
	Rules      *RulesBlock      `hcl:"rules,block"`
}

// SimulationBlock configures the Monte Carlo run.
type SimulationBlock struct {
	TargetScore *int   `hcl:"target_score,optional"`
	Rounds      int    `hcl:"rounds,optional"`
	Simulations int    `hcl:"simulations,optional"`
	Predicate   string `hcl:"predicate,optional"`
	Mode        string `hcl:"mode,optional"`
	Seed        int64  `hcl:"seed,optional"`
	Workers     int    `hcl:"workers,optional"`
}

// RulesBlock overrides table constants.
type RulesBlock struct {
	Players         int      `hcl:"players,optional"`
	HandSize        int      `hcl:"hand_size,optional"`
	Copies          int      `hcl:"copies,optional"`
	SkipProbability *float64 `hcl:"skip_probability,optional"`
	SoloDraws       *int     `hcl:"solo_draws,optional"`
	Ranks           []int    `hcl:"ranks,optional"`
}

// Load reads filename. A missing file is not an error and yields an empty
// File so that defaults apply.
func Load(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return &f, nil
}

// Apply overlays the file onto base and validates the result.
func (f *File) Apply(base simulator.Config) (simulator.Config, error) {
	cfg := base

	if s := f.Simulation; s != nil {
		if s.TargetScore != nil {
			cfg.TargetScore = *s.TargetScore
		}
		if s.Rounds != 0 {
			cfg.Rounds = s.Rounds
		}
		if s.Simulations != 0 {
			cfg.Simulations = s.Simulations
		}
		if s.Predicate != "" {
			p, err := simulator.ParsePredicate(s.Predicate)
			if err != nil {
				return cfg, fmt.Errorf("simulation block: %w", err)
			}
			cfg.Predicate = p
		}
		if s.Mode != "" {
			m, err := game.ParseMode(s.Mode)
			if err != nil {
				return cfg, fmt.Errorf("simulation block: %w", err)
			}
			cfg.Mode = m
		}
		if s.Seed != 0 {
			cfg.Seed = s.Seed
		}
		if s.Workers != 0 {
			cfg.Workers = s.Workers
		}
	}

	if r := f.Rules; r != nil {
		rules := cfg.Rules
		if r.Players != 0 {
			rules.Players = r.Players
		}
		if r.HandSize != 0 {
			rules.HandSize = r.HandSize
		}
		if r.Copies != 0 {
			rules.Copies = r.Copies
		}
		if r.SkipProbability != nil {
			rules.SkipProbability = *r.SkipProbability
		}
		if r.SoloDraws != nil {
			rules.SoloDraws = *r.SoloDraws
		}
		if len(r.Ranks) > 0 {
			rules.Ranks = make([]deck.Rank, len(r.Ranks))
			for i, v := range r.Ranks {
				rules.Ranks[i] = deck.Rank(v)
			}
		}
		cfg.Rules = rules
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks a run configuration coming from a user. The simulator
// itself accepts any target; users are held to a non-negative one.
func Validate(cfg simulator.Config) error {
	if cfg.TargetScore < 0 {
		return fmt.Errorf("target score must not be negative, got %d", cfg.TargetScore)
	}
	return cfg.Validate()
}
