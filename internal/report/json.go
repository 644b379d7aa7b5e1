package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/playnine/internal/simulator"
)

// Document is the JSON form of a result.
type Document struct {
	*simulator.Result

	OneIn          *int64      `json:"one_in,omitempty"`
	Interval95     [2]float64  `json:"interval_95"`
	MeanTotal      float64     `json:"mean_total"`
	StdDevTotal    float64     `json:"stddev_total"`
	RoundScores    map[int]int `json:"round_scores"`
	GamesPerSecond float64     `json:"games_per_second"`
}

// NewDocument builds the JSON document for res.
func NewDocument(res *simulator.Result) Document {
	doc := Document{
		Result:         res,
		MeanTotal:      res.Stats.MeanTotal(),
		StdDevTotal:    res.Stats.StdDevTotal(),
		RoundScores:    res.Stats.RoundScores,
		GamesPerSecond: res.MatchesPerSecond(),
	}
	if n, ok := res.OneIn(); ok {
		doc.OneIn = &n
	}
	doc.Interval95[0], doc.Interval95[1] = res.Stats.WilsonInterval(0.95)
	return doc
}

// WriteJSON writes res to filename atomically: readers see either the old
// file or the complete new one.
func WriteJSON(filename string, res *simulator.Result) error {
	data, err := json.MarshalIndent(NewDocument(res), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return writeFileAtomic(filename, append(data, '\n'), 0o644)
}

// writeFileAtomic writes to a temp file in the target directory and renames
// it over filename. The temp file must live on the same filesystem for the
// rename to be atomic.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmp = nil

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
