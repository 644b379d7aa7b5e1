package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG state words are derived from the seed so that nearby seeds still
// produce unrelated streams.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// ForMatch returns the generator for one match of a run. Every match gets
// its own stream so results do not depend on how matches are scheduled
// across workers.
func ForMatch(seed int64, match int) *rand.Rand {
	return New(seed + int64(match))
}

// Seed returns a fresh non-zero seed from the runtime source.
func Seed() int64 {
	for {
		if s := rand.Int64(); s != 0 {
			return s
		}
	}
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
