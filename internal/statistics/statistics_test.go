package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStatistics(t *testing.T) {
	var s Statistics

	assert.Equal(t, 0.0, s.Probability())
	n, ok := s.OneIn()
	assert.False(t, ok)
	assert.Zero(t, n)

	lo, hi := s.WilsonInterval(0.95)
	assert.Zero(t, lo)
	assert.Zero(t, hi)
	assert.Zero(t, s.MeanTotal())
	assert.Zero(t, s.StdDevTotal())

	mean, std := s.RoundMeanStdDev()
	assert.Zero(t, mean)
	assert.Zero(t, std)
}

func TestAddMatch(t *testing.T) {
	var s Statistics
	for _, total := range []int{6, 10, 4, 6} {
		s.AddMatch(total, total == 6)
	}

	assert.Equal(t, 4, s.Matches)
	assert.Equal(t, 2, s.Successes)
	assert.Equal(t, 0.5, s.Probability())
	assert.Equal(t, 4, s.MinTotal)
	assert.Equal(t, 10, s.MaxTotal)
	assert.InDelta(t, 6.5, s.MeanTotal(), 1e-9)
	// Sample variance of {6, 10, 4, 6}.
	assert.InDelta(t, 19.0/3.0, s.VarianceTotal(), 1e-9)

	n, ok := s.OneIn()
	require.True(t, ok)
	assert.Equal(t, int64(2), n)
}

func TestOneInRounds(t *testing.T) {
	s := Statistics{Matches: 1000, Successes: 3}
	n, ok := s.OneIn()
	require.True(t, ok)
	assert.Equal(t, int64(333), n)
}

func TestNegativeTotals(t *testing.T) {
	var s Statistics
	s.AddMatch(-8, true)
	s.AddMatch(-3, false)

	assert.Equal(t, -8, s.MinTotal)
	assert.Equal(t, -3, s.MaxTotal)
}

func TestWilsonInterval(t *testing.T) {
	s := Statistics{Matches: 100, Successes: 50}
	lo, hi := s.WilsonInterval(0.95)
	assert.InDelta(t, 0.4038, lo, 1e-3)
	assert.InDelta(t, 0.5962, hi, 1e-3)

	none := Statistics{Matches: 100}
	lo, hi = none.WilsonInterval(0.95)
	assert.InDelta(t, 0, lo, 1e-9)
	assert.Greater(t, hi, 0.0)
	assert.Less(t, hi, 0.05)
}

func TestMerge(t *testing.T) {
	var a, b Statistics
	a.AddMatch(6, true)
	a.AddRound(2, 1, false)
	a.AddRound(4, 0, true)

	b.AddMatch(-1, false)
	b.AddMatch(20, false)
	b.AddRound(2, 3, false)

	var merged Statistics
	merged.Merge(&a)
	merged.Merge(&b)
	merged.Merge(nil)
	merged.Merge(&Statistics{})

	assert.Equal(t, 3, merged.Matches)
	assert.Equal(t, 1, merged.Successes)
	assert.Equal(t, -1, merged.MinTotal)
	assert.Equal(t, 20, merged.MaxTotal)
	assert.Equal(t, 3, merged.Rounds)
	assert.Equal(t, 4, merged.Swaps)
	assert.Equal(t, 1, merged.Skipped)
	assert.Equal(t, map[int]int{2: 2, 4: 1}, merged.RoundScores)
	assert.InDelta(t, 25.0/3.0, merged.MeanTotal(), 1e-9)
}

func TestRoundDistribution(t *testing.T) {
	var s Statistics
	for _, score := range []int{0, 0, 2, 4} {
		s.AddRound(score, 0, false)
	}

	scores, counts := s.RoundScoreValues()
	assert.Equal(t, []float64{0, 2, 4}, scores)
	assert.Equal(t, []float64{2, 1, 1}, counts)

	mean, std := s.RoundMeanStdDev()
	assert.InDelta(t, 1.5, mean, 1e-9)
	// Sample standard deviation of {0, 0, 2, 4}.
	assert.InDelta(t, math.Sqrt(11.0/3.0), std, 1e-9)

	assert.Equal(t, 0.0, s.RoundQuantile(0.25))
	assert.Equal(t, 4.0, s.RoundQuantile(1))
}
