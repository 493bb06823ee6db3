// ABOUTME: Score strategies map the number of comments in a category to a 0..100 score
// ABOUTME: RandomStrategy is used in production, MidpointStrategy gives deterministic results

package scoring

import (
	"math/rand"
	"sync"
	"time"
)

// band is one step of the score function: Base plus a value in [0, Spread)
type band struct {
	Base   int
	Spread int
}

// perfectScore is awarded to a category without any comment
const perfectScore = 95

// bands indexed by comment count, the last one applies to every higher count
var bands = []band{
	{Base: 80, Spread: 10},
	{Base: 70, Spread: 10},
	{Base: 60, Spread: 10},
	{Base: 50, Spread: 15},
}

func bandFor(count int) band {
	idx := count - 1
	if idx >= len(bands) {
		idx = len(bands) - 1
	}
	return bands[idx]
}

// Strategy turns a category's comment count into a score.
// More comments mean a lower score.
type Strategy interface {
	Score(count int) int
}

// RandomStrategy picks a uniformly random score within the band
type RandomStrategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy creates a strategy seeded from the clock
func NewRandomStrategy() *RandomStrategy {
	return NewRandomStrategyWithSeed(time.Now().UnixNano())
}

// NewRandomStrategyWithSeed creates a reproducible strategy
func NewRandomStrategyWithSeed(seed int64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

// Score implements Strategy
func (s *RandomStrategy) Score(count int) int {
	if count <= 0 {
		return perfectScore
	}
	b := bandFor(count)
	s.mu.Lock()
	defer s.mu.Unlock()
	return b.Base + s.rng.Intn(b.Spread)
}

// MidpointStrategy returns the middle of each band
type MidpointStrategy struct{}

// Score implements Strategy
func (MidpointStrategy) Score(count int) int {
	if count <= 0 {
		return perfectScore
	}
	b := bandFor(count)
	return b.Base + b.Spread/2
}
