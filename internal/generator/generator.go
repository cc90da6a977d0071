// Package generator picks threats to spawn.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/hackblitz/internal/game"
)

// Generator produces randomized spawn choices.
type Generator struct {
	rnd    *rand.Rand
	weak   map[string]struct{}
	factor float64
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// SetWeak biases picks toward the given words. Each weak word weighs 1+factor.
func (g *Generator) SetWeak(weak map[string]struct{}, factor float64) {
	g.weak = weak
	g.factor = factor
}

// Pick selects a term eligible at level, uniformly unless weak words are set.
func (g *Generator) Pick(terms []game.Term, level int) (game.Term, bool) {
	eligible := game.Eligible(terms, level)
	if len(eligible) == 0 {
		return game.Term{}, false
	}
	if len(g.weak) == 0 || g.factor <= 0 {
		return eligible[g.rnd.Intn(len(eligible))], true
	}
	return g.pickWeighted(eligible), true
}

// Float64 returns a pseudo-random number in [0, 1).
func (g *Generator) Float64() float64 {
	return g.rnd.Float64()
}

func (g *Generator) pickWeighted(eligible []game.Term) game.Term {
	weights := make([]float64, len(eligible))
	total := 0.0
	for i, t := range eligible {
		w := 1.0
		if _, ok := g.weak[t.Word]; ok {
			w += g.factor
		}
		weights[i] = w
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return eligible[i]
		}
	}
	return eligible[len(eligible)-1]
}
