package phase

import (
	"math/rand/v2"
	"sync"
)

// Shuffler produces uniformly random choice orderings.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewShuffler creates a Shuffler drawing from src. A nil src uses a
// randomly seeded source.
func NewShuffler(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Shuffler{rng: rand.New(src)}
}

// Order returns a Fisher-Yates permutation of 0..n-1.
func (s *Shuffler) Order(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := n - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
