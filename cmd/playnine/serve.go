package main

import (
	"github.com/lox/playnine/cmd/playnine/shared"
	"github.com/lox/playnine/internal/simulator"
	"github.com/lox/playnine/internal/stream"
)

// ServeCmd serves simulations over websockets.
type ServeCmd struct {
	SimFlags `embed:""`

	Addr           string `kong:"default=':8080',help='Server address'"`
	MaxSimulations int    `kong:"default='1000000',help='Largest run a client may request'"`
	JSONLogs       bool   `kong:"name='json-logs',help='Log structured JSON instead of console output'"`
}

func (c *ServeCmd) Run(g *Globals) error {
	logger := shared.SetupLogger(g.Debug)
	if c.JSONLogs {
		logger = shared.SetupStructuredLogger(g.Debug)
	}

	cfg, err := c.load(g, simulator.DefaultConfig().Simulations)
	if err != nil {
		return err
	}

	srv := stream.NewServer(stream.Config{
		Base:           cfg,
		MaxSimulations: c.MaxSimulations,
	}, logger)

	logger.Info().
		Str("address", c.Addr).
		Int("default_target", cfg.TargetScore).
		Int("default_rounds", cfg.Rounds).
		Int("default_simulations", cfg.Simulations).
		Str("default_mode", string(cfg.Mode)).
		Int("max_simulations", c.MaxSimulations).
		Msg("Starting Play Nine simulation server")

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	return srv.ListenAndServe(ctx, c.Addr)
}
