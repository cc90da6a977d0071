// Package wordlist loads custom vocabularies from files.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/hackblitz/internal/game"
)

// LoadTerms reads one "WORD | definition | min-level" entry per line.
// Blank lines and lines starting with '#' are skipped.
func LoadTerms(path string) ([]game.Term, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only vocabulary.
			_ = cerr
		}
	}()

	var terms []game.Term
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		term, err := ParseTerm(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		terms = append(terms, term)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := Validate(terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// ParseTerm parses a single vocabulary line.
func ParseTerm(line string) (game.Term, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return game.Term{}, fmt.Errorf("expected 3 fields separated by '|', got %d", len(parts))
	}
	level, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return game.Term{}, fmt.Errorf("invalid min-level %q: %w", strings.TrimSpace(parts[2]), err)
	}
	return game.Term{
		Word:       game.Normalize(strings.TrimSpace(parts[0])),
		Definition: strings.TrimSpace(parts[1]),
		MinLevel:   level,
	}, nil
}
