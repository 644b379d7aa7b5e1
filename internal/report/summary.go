// Package report renders simulation results for people and programs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/simulator"
)

type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	warning lipgloss.Style
	sample  lipgloss.Style
}

// newStyles builds styles for w. Writers that are not terminals get plain
// text.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		label:   r.NewStyle().Foreground(lipgloss.Color("12")),
		value:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		sample:  r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// PrintSummary writes a human readable summary of res to w.
func PrintSummary(w io.Writer, res *simulator.Result, rules game.Rules) {
	st := newStyles(w)
	title := "Play Nine Card Game - Simulation Summary"

	fmt.Fprintf(w, "\n%s\n%s\n", st.header.Render(title), strings.Repeat("=", len(title)))
	fmt.Fprintf(w, "Simulated %d games of %d rounds each (%s)\n",
		res.Completed, res.Rounds, res.Mode.Description(rules))
	if res.Cancelled {
		fmt.Fprintln(w, st.warning.Render(fmt.Sprintf("Run cancelled after %d of %d games", res.Completed, res.Simulations)))
	}
	fmt.Fprintf(w, "Looking for games where total score across %d rounds %s\n",
		res.Rounds, res.Predicate.Describe(res.TargetScore))

	fmt.Fprintf(w, "\n%s\n", st.header.Render("Results:"))
	line := func(label, format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", st.label.Render(label+":"), st.value.Render(fmt.Sprintf(format, args...)))
	}

	line("Total matches", "%d", res.Successes)
	line("Probability", "%.6f (%.4f%%)", res.Probability, res.Probability*100)
	if n, ok := res.OneIn(); ok {
		lo, hi := res.Stats.WilsonInterval(0.95)
		line("95% CI", "[%.6f, %.6f]", lo, hi)
		fmt.Fprintf(w, "Approximately 1 in %d full games\n", n)
	} else {
		fmt.Fprintln(w, st.warning.Render("No matches found"))
	}

	if res.Completed > 0 {
		line("Match totals", "mean %.2f, std dev %.2f, min %d, max %d",
			res.Stats.MeanTotal(), res.Stats.StdDevTotal(), res.Stats.MinTotal, res.Stats.MaxTotal)
		mean, std := res.Stats.RoundMeanStdDev()
		line("Round scores", "mean %.2f, std dev %.2f, median %.0f", mean, std, res.Stats.RoundQuantile(0.5))
		if res.Stats.Rounds > 0 {
			line("Swaps per round", "%.2f", float64(res.Stats.Swaps)/float64(res.Stats.Rounds))
		}
		if res.Stats.Skipped > 0 {
			line("Rushed rounds", "%d", res.Stats.Skipped)
		}
	}
	if res.Elapsed > 0 {
		line("Elapsed", "%.1fs (%.0f games/sec)", res.Elapsed.Seconds(), res.MatchesPerSecond())
	}
	line("Seed", "%d", res.Seed)

	if len(res.Samples) > 0 {
		fmt.Fprintf(w, "\nExample round scores found (each list shows %d rounds):\n", res.Rounds)
		for i, s := range res.Samples {
			fmt.Fprintf(w, "Game %d: %s\n", i+1, st.sample.Render(fmt.Sprintf("%v = %d", s.Scores, s.Total)))
		}
	}
	fmt.Fprintln(w, "\nNote: Each round score is calculated from pairs of matching cards")
}
