// Package vault scores password strength and generates passphrases.
package vault

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"
)

// VaultThreshold is the minimum score that locks a password into the vault.
const VaultThreshold = 90

var (
	upperRe      = regexp.MustCompile(`[A-Z]`)
	lowerRe      = regexp.MustCompile(`[a-z]`)
	digitRe      = regexp.MustCompile(`[0-9]`)
	symbolRe     = regexp.MustCompile(`[^A-Za-z0-9]`)
	digitsOnlyRe = regexp.MustCompile(`^[0-9]+$`)
)

var (
	passphraseWords   = []string{"Cypher", "Ghost", "Volt", "Static", "Neon", "Void", "Pixel", "Circuit", "Pulse", "Shadow", "Rogue", "Logic"}
	passphraseSymbols = []string{"!", "@", "#", "$", "*"}
)

// Audit is the result of evaluating a password.
type Audit struct {
	Score int
	Label string
	Tips  []string
}

// Vaulted reports whether the password is strong enough to keep.
func (a Audit) Vaulted() bool {
	return a.Score >= VaultThreshold
}

// Evaluate scores a password from 0 to 100 and lists what would make it stronger.
// An empty password scores 0 with no tips.
func Evaluate(password string) Audit {
	if password == "" {
		return Audit{Label: Label(0)}
	}
	length := utf8.RuneCountInString(password)
	hasUpper := upperRe.MatchString(password)
	hasSymbol := symbolRe.MatchString(password)

	score := 0
	if length > 8 {
		score += 20
	}
	if length > 12 {
		score += 20
	}
	if hasUpper {
		score += 15
	}
	if lowerRe.MatchString(password) {
		score += 10
	}
	if digitRe.MatchString(password) {
		score += 15
	}
	if hasSymbol {
		score += 20
	}

	var tips []string
	lower := strings.ToLower(password)
	if digitsOnlyRe.MatchString(password) {
		tips = append(tips, "Only numbers? That's too easy to guess.")
	}
	if strings.Contains(lower, "password") {
		tips = append(tips, "Don't put 'password' in a password.")
	}
	if strings.Contains(lower, "123") {
		tips = append(tips, "The sequence '123' is a red flag.")
	}
	if length < 8 {
		tips = append(tips, "Make it longer (at least 8 characters).")
	}
	if !hasUpper {
		tips = append(tips, "Add some CAPITAL letters.")
	}
	if !hasSymbol {
		tips = append(tips, "Throw in some symbols like @, #, $.")
	}
	return Audit{Score: score, Label: Label(score), Tips: tips}
}

// Label names a strength score.
func Label(score int) string {
	switch {
	case score < 40:
		return "Weak"
	case score < 70:
		return "Medium"
	case score < VaultThreshold:
		return "Strong"
	default:
		return "Untouchable"
	}
}

// GeneratePassphrase returns a Word-Word-NNNS passphrase.
func GeneratePassphrase(rnd *rand.Rand) string {
	w1 := passphraseWords[rnd.Intn(len(passphraseWords))]
	w2 := passphraseWords[rnd.Intn(len(passphraseWords))]
	sym := passphraseSymbols[rnd.Intn(len(passphraseSymbols))]
	return fmt.Sprintf("%s-%s-%03d%s", w1, w2, rnd.Intn(999), sym)
}
