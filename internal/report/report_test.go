package report

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/playnine/internal/game"
	"github.com/lox/playnine/internal/simulator"
	"github.com/lox/playnine/internal/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSmall(t *testing.T, target int, pred simulator.Predicate) *simulator.Result {
	t.Helper()
	cfg := simulator.DefaultConfig()
	cfg.Simulations = 200
	cfg.Seed = 42
	cfg.Workers = 2
	cfg.TargetScore = target
	cfg.Predicate = pred

	res, err := simulator.Run(context.Background(), cfg)
	require.NoError(t, err)
	return res
}

func TestPrintSummaryWithMatches(t *testing.T) {
	res := runSmall(t, 1000, simulator.PredicateAtMost)

	var buf bytes.Buffer
	PrintSummary(&buf, res, game.DefaultRules())
	out := buf.String()

	assert.Contains(t, out, "Play Nine Card Game - Simulation Summary")
	assert.Contains(t, out, "Simulated 200 games of 7 rounds each (6-player draw race)")
	assert.Contains(t, out, "total score across 7 rounds is at most 1000")
	assert.Contains(t, out, "Total matches: 200")
	assert.Contains(t, out, "Probability: 1.000000 (100.0000%)")
	assert.Contains(t, out, "Approximately 1 in 1 full games")
	assert.Contains(t, out, "Game 5:")
	assert.NotContains(t, out, "Game 6:")
	assert.NotContains(t, out, "\x1b[", "buffers get plain text")
}

func TestPrintSummaryWithoutMatches(t *testing.T) {
	res := runSmall(t, 5000, simulator.PredicateEqual)

	var buf bytes.Buffer
	PrintSummary(&buf, res, game.DefaultRules())
	out := buf.String()

	assert.Contains(t, out, "Total matches: 0")
	assert.Contains(t, out, "No matches found")
	assert.NotContains(t, out, "Approximately 1 in")
	assert.NotContains(t, out, "Example round scores")
}

func TestPrintSummaryCancelled(t *testing.T) {
	res := &simulator.Result{
		Rounds:      7,
		Simulations: 100,
		Completed:   0,
		Cancelled:   true,
		Mode:        game.ModeSolo,
		Predicate:   simulator.PredicateEqual,
		Stats:       statistics.Statistics{},
	}

	var buf bytes.Buffer
	PrintSummary(&buf, res, game.DefaultRules())

	assert.Contains(t, buf.String(), "Run cancelled after 0 of 100 games")
	assert.Contains(t, buf.String(), "solo hand, 3 draws, 30% rushed rounds")
}

func TestWriteJSON(t *testing.T) {
	res := runSmall(t, 1000, simulator.PredicateAtMost)
	path := filepath.Join(t.TempDir(), "result.json")

	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))
	require.NoError(t, WriteJSON(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, res.RunID, doc["run_id"])
	assert.Equal(t, float64(200), doc["successes"])
	assert.Equal(t, float64(1), doc["one_in"])
	assert.Len(t, doc["samples"], 5)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestWriteJSONOmitsOneInWithoutMatches(t *testing.T) {
	res := runSmall(t, 5000, simulator.PredicateEqual)
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, WriteJSON(path, res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "one_in")
}

func TestWriteJSONMissingDirectory(t *testing.T) {
	res := runSmall(t, 6, simulator.PredicateEqual)
	err := WriteJSON(filepath.Join(t.TempDir(), "nope", "result.json"), res)
	assert.Error(t, err)
}
