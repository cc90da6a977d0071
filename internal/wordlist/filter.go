package wordlist

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/hackblitz/internal/game"
)

// ValidWord reports whether a word can be typed as a threat label:
// uppercase ASCII letters separated by single spaces.
func ValidWord(word string) bool {
	if word == "" || strings.HasPrefix(word, " ") || strings.HasSuffix(word, " ") {
		return false
	}
	prevSpace := false
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch == ' ' {
			if prevSpace {
				return false
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	return true
}

// Validate checks a vocabulary before it is handed to the game.
func Validate(terms []game.Term) error {
	if len(terms) == 0 {
		return fmt.Errorf("vocabulary is empty")
	}
	hasFirstLevel := false
	for _, t := range terms {
		if !ValidWord(t.Word) {
			return fmt.Errorf("invalid word %q", t.Word)
		}
		if t.MinLevel < 1 {
			return fmt.Errorf("word %q: min-level must be >= 1", t.Word)
		}
		if t.MinLevel == 1 {
			hasFirstLevel = true
		}
	}
	if !hasFirstLevel {
		return fmt.Errorf("vocabulary needs at least one level-1 word")
	}
	return nil
}
