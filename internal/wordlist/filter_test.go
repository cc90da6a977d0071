package wordlist

import (
	"testing"

	"github.com/verte-zerg/hackblitz/internal/game"
)

func TestValidWord(t *testing.T) {
	for _, word := range []string{"PHISHING", "ZERO DAY", "A"} {
		if !ValidWord(word) {
			t.Fatalf("expected %q to be valid", word)
		}
	}
	for _, word := range []string{"", "phishing", "ZERO  DAY", " DDOS", "DDOS ", "X-RAY", "CAFÉ"} {
		if ValidWord(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestValidateDefaultVocabulary(t *testing.T) {
	if err := Validate(game.DefaultVocabulary()); err != nil {
		t.Fatalf("default vocabulary invalid: %v", err)
	}
}

func TestValidateRequiresFirstLevel(t *testing.T) {
	terms := []game.Term{{Word: "BOTNET", Definition: "x", MinLevel: 2}}
	if err := Validate(terms); err == nil {
		t.Fatalf("expected error without level-1 word")
	}
}
