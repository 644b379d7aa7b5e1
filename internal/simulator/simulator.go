package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/randutil"
	"github.com/lox/playnine/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// MaxSamples is how many successful matches a Result keeps as examples.
const MaxSamples = 5

// Config holds configuration for a simulation run
type Config struct {
	TargetScore int
	Rounds      int // rounds per match
	Simulations int // matches to play
	Predicate   Predicate
	Mode        game.Mode
	Rules       game.Rules
	Seed        int64 // 0 picks a random seed
	Workers     int   // 0 uses GOMAXPROCS

	Logger  *log.Logger
	Clock   quartz.Clock
	Monitor Monitor
}

// DefaultConfig returns the reference batch configuration: 100000 matches
// of 7 rounds, looking for totals equal to 6 in a 6-player race.
func DefaultConfig() Config {
	return Config{
		TargetScore: 6,
		Rounds:      7,
		Simulations: 100000,
		Predicate:   PredicateEqual,
		Mode:        game.ModeRace,
		Rules:       game.DefaultRules(),
	}
}

// Validate checks the run parameters.
func (c Config) Validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", c.Rounds)
	}
	if c.Simulations < 1 {
		return fmt.Errorf("simulations must be at least 1, got %d", c.Simulations)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := ParsePredicate(string(c.Predicate)); err != nil {
		return err
	}
	if _, err := game.ParseMode(string(c.Mode)); err != nil {
		return err
	}
	return c.Rules.Validate()
}

// MatchRecord is the per-round scores of one match and their sum.
type MatchRecord struct {
	Index  int   `json:"index"`
	Scores []int `json:"scores"`
	Total  int   `json:"total"`
}

func (m MatchRecord) String() string {
	return fmt.Sprintf("Round scores: %v = %d", m.Scores, m.Total)
}

// Result is the outcome of a run. When the run was cancelled it describes
// the matches that completed before cancellation.
type Result struct {
	RunID       string        `json:"run_id"`
	TargetScore int           `json:"target_score"`
	Rounds      int           `json:"rounds"`
	Simulations int           `json:"simulations"`
	Predicate   Predicate     `json:"predicate"`
	Mode        game.Mode     `json:"mode"`
	Seed        int64         `json:"seed"`
	Completed   int           `json:"completed"`
	Successes   int           `json:"successes"`
	Probability float64       `json:"probability"`
	Samples     []MatchRecord `json:"samples"`
	Elapsed     time.Duration `json:"elapsed"`
	Cancelled   bool          `json:"cancelled"`

	Stats statistics.Statistics `json:"-"`
}

// OneIn returns N for "approximately 1 in N matches"; ok is false when no
// match succeeded.
func (r *Result) OneIn() (int64, bool) {
	return r.Stats.OneIn()
}

// MatchesPerSecond returns the throughput of the run.
func (r *Result) MatchesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Completed) / r.Elapsed.Seconds()
}

// Simulator runs Monte Carlo estimates of match totals
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Monitor == nil {
		config.Monitor = NopMonitor{}
	}
	if config.Workers == 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Workers > config.Simulations {
		config.Workers = config.Simulations
	}
	if config.Seed == 0 {
		config.Seed = randutil.Seed()
	}
	return &Simulator{config: config}
}

// Seed returns the seed the run uses, which is chosen at construction when
// the configuration left it zero.
func (s *Simulator) Seed() int64 {
	return s.config.Seed
}

// tally is the private state of one worker, merged after all workers stop.
type tally struct {
	stats   statistics.Statistics
	samples []MatchRecord
}

// Run plays the configured number of matches. Cancelling ctx stops the
// workers at the next match boundary; Run then returns the partial result
// together with the context error.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := cfg.Logger.With("run", runID)
	start := cfg.Clock.Now()

	logger.Debug("Starting simulation",
		"simulations", cfg.Simulations,
		"rounds", cfg.Rounds,
		"target", cfg.TargetScore,
		"predicate", cfg.Predicate,
		"mode", cfg.Mode,
		"seed", cfg.Seed,
		"workers", cfg.Workers)

	events := make(chan Event, 1024)
	emitDone := make(chan struct{})
	go func() {
		defer close(emitDone)
		emit(events, cfg.Monitor)
	}()

	var (
		next      atomic.Int64
		completed atomic.Int64
	)
	step := int64(max(1, cfg.Simulations/100))
	total := int64(cfg.Simulations)

	tallies := make([]*tally, cfg.Workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		t := &tally{}
		tallies[w] = t

		g.Go(func() error {
			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := next.Add(1) - 1
				if i >= total {
					return nil
				}

				match := s.playMatch(int(i), &t.stats)
				success := cfg.Predicate.Match(match.Total, cfg.TargetScore)
				t.stats.AddMatch(match.Total, success)
				if success {
					if len(t.samples) < MaxSamples {
						t.samples = append(t.samples, match)
					}
					events <- Event{Kind: EventMatch, Match: match}
				}

				if n := completed.Add(1); n%step == 0 || n == total {
					events <- Event{Kind: EventProgress, Percent: int(n * 100 / total)}
				}
			}
		})
	}

	err := g.Wait()
	close(events)
	<-emitDone

	result := s.merge(tallies)
	result.RunID = runID
	result.Elapsed = cfg.Clock.Since(start)

	if err != nil {
		result.Cancelled = true
		logger.Debug("Simulation cancelled", "completed", result.Completed, "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, err
	}

	logger.Debug("Simulation finished",
		"successes", result.Successes,
		"probability", result.Probability,
		"elapsed", result.Elapsed)
	return result, nil
}

// playMatch plays every round of match i with the match's own RNG stream.
func (s *Simulator) playMatch(i int, stats *statistics.Statistics) MatchRecord {
	cfg := &s.config
	rng := randutil.ForMatch(cfg.Seed, i)

	match := MatchRecord{Index: i, Scores: make([]int, cfg.Rounds)}
	for r := range match.Scores {
		round := game.Play(cfg.Mode, cfg.Rules, rng)
		stats.AddRound(round.Score, round.Swaps, round.Skipped)
		match.Scores[r] = round.Score
		match.Total += round.Score
	}
	return match
}

// merge combines the worker tallies. Samples are the lowest-indexed
// successes across all workers, so they do not depend on scheduling.
func (s *Simulator) merge(tallies []*tally) *Result {
	cfg := s.config
	result := &Result{
		TargetScore: cfg.TargetScore,
		Rounds:      cfg.Rounds,
		Simulations: cfg.Simulations,
		Predicate:   cfg.Predicate,
		Mode:        cfg.Mode,
		Seed:        cfg.Seed,
		Samples:     []MatchRecord{},
	}

	for _, t := range tallies {
		result.Stats.Merge(&t.stats)
		result.Samples = append(result.Samples, t.samples...)
	}
	slices.SortFunc(result.Samples, func(a, b MatchRecord) int {
		return a.Index - b.Index
	})
	if len(result.Samples) > MaxSamples {
		result.Samples = result.Samples[:MaxSamples]
	}

	result.Completed = result.Stats.Matches
	result.Successes = result.Stats.Successes
	result.Probability = result.Stats.Probability()
	return result
}

// emit delivers events to the monitor in arrival order, keeping progress
// monotonic even though workers report out of order.
func emit(events <-chan Event, monitor Monitor) {
	last := -1
	for ev := range events {
		switch ev.Kind {
		case EventProgress:
			if ev.Percent > last {
				last = ev.Percent
				monitor.OnProgress(ev.Percent)
			}
		case EventMatch:
			monitor.OnMatchFound(ev.Match)
		}
	}
}

// Run is a convenience wrapper around New(config).Run(ctx).
func Run(ctx context.Context, config Config) (*Result, error) {
	return New(config).Run(ctx)
}

// IsCancelled reports whether err came from a cancelled or expired context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
