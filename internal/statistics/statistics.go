package statistics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Statistics accumulates match outcomes. Each worker keeps its own value
// and the results are combined with Merge once the workers finish.
type Statistics struct {
	Matches   int
	Successes int

	SumTotal  float64 // Sum of match totals
	SumTotal2 float64 // Sum of squared match totals for variance
	MinTotal  int
	MaxTotal  int

	Rounds      int
	RoundScores map[int]int // round score -> occurrences
	Swaps       int         // swaps made by the tracked player over all rounds
	Skipped     int         // rushed rounds scored as dealt
}

// AddMatch records one finished match.
func (s *Statistics) AddMatch(total int, success bool) {
	if s.Matches == 0 || total < s.MinTotal {
		s.MinTotal = total
	}
	if s.Matches == 0 || total > s.MaxTotal {
		s.MaxTotal = total
	}
	s.Matches++
	if success {
		s.Successes++
	}
	t := float64(total)
	s.SumTotal += t
	s.SumTotal2 += t * t
}

// AddRound records one round of a match.
func (s *Statistics) AddRound(score, swaps int, skipped bool) {
	if s.RoundScores == nil {
		s.RoundScores = make(map[int]int)
	}
	s.Rounds++
	s.RoundScores[score]++
	s.Swaps += swaps
	if skipped {
		s.Skipped++
	}
}

// Merge folds other into s.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil || other.Matches == 0 && other.Rounds == 0 {
		return
	}
	if other.Matches > 0 {
		if s.Matches == 0 || other.MinTotal < s.MinTotal {
			s.MinTotal = other.MinTotal
		}
		if s.Matches == 0 || other.MaxTotal > s.MaxTotal {
			s.MaxTotal = other.MaxTotal
		}
	}
	s.Matches += other.Matches
	s.Successes += other.Successes
	s.SumTotal += other.SumTotal
	s.SumTotal2 += other.SumTotal2
	s.Rounds += other.Rounds
	s.Swaps += other.Swaps
	s.Skipped += other.Skipped
	if len(other.RoundScores) > 0 && s.RoundScores == nil {
		s.RoundScores = make(map[int]int, len(other.RoundScores))
	}
	for score, n := range other.RoundScores {
		s.RoundScores[score] += n
	}
}

// Probability returns the fraction of matches that satisfied the success
// predicate, or 0 when no match has been played.
func (s *Statistics) Probability() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Matches)
}

// OneIn returns N for an "approximately 1 in N" statement. ok is false when
// there were no successes.
func (s *Statistics) OneIn() (n int64, ok bool) {
	if s.Successes == 0 {
		return 0, false
	}
	return int64(math.Round(float64(s.Matches) / float64(s.Successes))), true
}

// WilsonInterval returns the Wilson score interval of the success
// probability at the given confidence level (e.g. 0.95).
func (s *Statistics) WilsonInterval(confidence float64) (float64, float64) {
	if s.Matches == 0 {
		return 0, 0
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	n := float64(s.Matches)
	p := s.Probability()

	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	half := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom

	return math.Max(0, center-half), math.Min(1, center+half)
}

// MeanTotal returns the mean match total.
func (s *Statistics) MeanTotal() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.SumTotal / float64(s.Matches)
}

// VarianceTotal returns the sample variance of match totals.
func (s *Statistics) VarianceTotal() float64 {
	if s.Matches < 2 {
		return 0
	}
	mean := s.MeanTotal()
	return max(0, (s.SumTotal2-float64(s.Matches)*mean*mean)/float64(s.Matches-1))
}

// StdDevTotal returns the sample standard deviation of match totals.
func (s *Statistics) StdDevTotal() float64 {
	return math.Sqrt(s.VarianceTotal())
}

// RoundScoreValues returns the distinct round scores in ascending order
// together with how often each occurred.
func (s *Statistics) RoundScoreValues() (scores []float64, counts []float64) {
	keys := make([]int, 0, len(s.RoundScores))
	for k := range s.RoundScores {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		scores = append(scores, float64(k))
		counts = append(counts, float64(s.RoundScores[k]))
	}
	return scores, counts
}

// RoundMeanStdDev returns the mean and standard deviation of round scores.
func (s *Statistics) RoundMeanStdDev() (mean, std float64) {
	scores, counts := s.RoundScoreValues()
	if len(scores) == 0 {
		return 0, 0
	}
	if len(scores) == 1 {
		return scores[0], 0
	}
	return stat.MeanStdDev(scores, counts)
}

// RoundQuantile returns the p-quantile of round scores.
func (s *Statistics) RoundQuantile(p float64) float64 {
	scores, counts := s.RoundScoreValues()
	if len(scores) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, scores, counts)
}
