package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/playnine/internal/tui"
)

// interactiveSimulations keeps interactive runs short by default.
const interactiveSimulations = 1000

// TUICmd runs the interactive simulator.
type TUICmd struct {
	SimFlags `embed:""`

	LogFile string `type:"path" help:"Write logs to this file (the terminal is taken by the UI)"`
}

func (c *TUICmd) Run(g *Globals) error {
	var w io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	level := log.InfoLevel
	if g.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	cfg, err := c.load(g, interactiveSimulations)
	if err != nil {
		return err
	}
	return tui.Run(cfg, logger)
}
