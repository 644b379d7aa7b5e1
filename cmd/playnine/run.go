package main

import (
	"os"

	"github.com/lox/playnine/cmd/playnine/shared"
	"github.com/lox/playnine/internal/report"
	"github.com/lox/playnine/internal/simulator"
)

// RunCmd runs a batch simulation and prints the summary.
type RunCmd struct {
	SimFlags `embed:""`

	Output  string `short:"o" type:"path" help:"Also write the result as JSON to this file"`
	Matches bool   `default:"true" negatable:"" help:"Print each matching game as it is found"`
	Quiet   bool   `short:"q" help:"Hide the progress bar and match log"`
}

func (c *RunCmd) Run(g *Globals) error {
	logger := shared.NewLogger(g.Debug)

	cfg, err := c.load(g, simulator.DefaultConfig().Simulations)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	var progress *report.ProgressMonitor
	if !c.Quiet {
		progress = report.NewProgressMonitor(os.Stderr, c.Matches)
		cfg.Monitor = progress
	}

	ctx := shared.SetupSignalHandler(logger)
	res, err := simulator.Run(ctx, cfg)
	if progress != nil {
		progress.Finish()
	}
	if err != nil && !simulator.IsCancelled(err) {
		return err
	}

	report.PrintSummary(os.Stdout, res, cfg.Rules)

	if c.Output != "" {
		if err := report.WriteJSON(c.Output, res); err != nil {
			return err
		}
		logger.Info("Wrote result", "file", c.Output)
	}
	return nil
}
