package game

import "strings"

// DefaultVocabulary is the built-in set of security terms.
func DefaultVocabulary() []Term {
	return []Term{
		{Word: "PHISHING", Definition: "Fake emails used to steal info.", MinLevel: 1},
		{Word: "MALWARE", Definition: "Software designed to hack devices.", MinLevel: 1},
		{Word: "DDOS", Definition: "Crashing sites with too much traffic.", MinLevel: 1},
		{Word: "FIREWALL", Definition: "Digital barrier blocking access.", MinLevel: 1},
		{Word: "SPOOFING", Definition: "Faking identity to trick users.", MinLevel: 2},
		{Word: "ENCRYPTION", Definition: "Scrambling data for privacy.", MinLevel: 2},
		{Word: "BOTNET", Definition: "Network of hijacked computers.", MinLevel: 2},
		{Word: "RANSOMWARE", Definition: "Locking files for money.", MinLevel: 3},
		{Word: "SPYWARE", Definition: "Software that watches you secretly.", MinLevel: 3},
		{Word: "ZERO DAY", Definition: "A newly discovered unpatched bug.", MinLevel: 3},
	}
}

// Eligible returns the terms that may spawn at the given level.
func Eligible(terms []Term, level int) []Term {
	out := make([]Term, 0, len(terms))
	for _, t := range terms {
		if t.MinLevel <= level {
			out = append(out, t)
		}
	}
	return out
}

// Normalize converts raw input text into the form compared against threat words.
func Normalize(text string) string {
	return strings.ToUpper(text)
}
