package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"playnine.hcl" env:"PLAYNINE_CONFIG" help:"HCL config file (a missing file uses the defaults)"`
	Debug  bool   `env:"PLAYNINE_DEBUG" help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Run     RunCmd           `cmd:"" default:"withargs" help:"Simulate games and print the odds (default)"`
	TUI     TUICmd           `cmd:"" name:"tui" help:"Run the interactive simulator"`
	Serve   ServeCmd         `cmd:"" help:"Serve simulations to websocket clients"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("playnine"),
		kong.Description("Monte Carlo odds of hitting a total score in Play Nine"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
