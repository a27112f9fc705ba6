package generate

import (
	"math/rand/v2"
	"slices"
)

// Sampler draws candidate identifier sets for dependent batches.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler. A zero seed draws a random one.
func NewSampler(seed uint64) *Sampler {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Sample returns min(k, len(pool)) distinct elements of pool in random
// order. pool is not modified.
func (s *Sampler) Sample(pool []string, k int) []string {
	k = min(k, len(pool))
	if k <= 0 {
		return []string{}
	}
	shuffled := slices.Clone(pool)
	// partial Fisher-Yates: the first k slots end up uniformly sampled
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k]
}
