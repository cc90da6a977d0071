package generator

import (
	"testing"

	"github.com/verte-zerg/hackblitz/internal/game"
)

func TestPickRespectsMinLevel(t *testing.T) {
	gen := NewSeeded(1)
	vocab := game.DefaultVocabulary()
	for i := 0; i < 500; i++ {
		term, ok := gen.Pick(vocab, 1)
		if !ok {
			t.Fatalf("expected a level-1 term")
		}
		if term.MinLevel > 1 {
			t.Fatalf("picked %s above level 1", term.Word)
		}
	}
}

func TestPickCoversEligibleTerms(t *testing.T) {
	gen := NewSeeded(2)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		term, _ := gen.Pick(game.DefaultVocabulary(), 3)
		seen[term.Word] = true
	}
	if len(seen) != 10 {
		t.Fatalf("expected all 10 terms at level 3, got %d", len(seen))
	}
}

func TestPickNoEligible(t *testing.T) {
	gen := NewSeeded(3)
	if _, ok := gen.Pick([]game.Term{{Word: "BOTNET", MinLevel: 2}}, 1); ok {
		t.Fatalf("expected no pick")
	}
}

func TestPickWeightedFavorsWeakWords(t *testing.T) {
	gen := NewSeeded(4)
	gen.SetWeak(map[string]struct{}{"DDOS": {}}, 9)
	counts := map[string]int{}
	for i := 0; i < 4000; i++ {
		term, _ := gen.Pick(game.DefaultVocabulary(), 1)
		counts[term.Word]++
	}
	// DDOS weighs 10 of a total 13.
	if counts["DDOS"] < 2500 {
		t.Fatalf("expected weak word to dominate, got %v", counts)
	}
}

func TestFloat64Range(t *testing.T) {
	gen := NewSeeded(5)
	for i := 0; i < 100; i++ {
		v := gen.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("value out of range: %f", v)
		}
	}
}
