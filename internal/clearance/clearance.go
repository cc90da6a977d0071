// Package clearance turns earned XP into a clearance rank and runs the daily check-in.
package clearance

import (
	"fmt"
	"time"
)

// XP awarded outside game runs.
const (
	ScanXP       = 50
	VaultXP      = 30
	CheckinYesXP = 20
	XPPerRank    = 1000
)

const dayLayout = "2006-01-02"

// Level is a clearance rank and the XP earned toward the next one.
type Level struct {
	Rank  int
	Into  int
	Total int
}

// ForXP computes the clearance level for a lifetime XP total. Rank starts at 1.
func ForXP(total int) Level {
	if total < 0 {
		total = 0
	}
	return Level{Rank: 1 + total/XPPerRank, Into: total % XPPerRank, Total: total}
}

// String formats the level for footers and reports.
func (l Level) String() string {
	return fmt.Sprintf("Clearance %d (%d/%d XP)", l.Rank, l.Into, XPPerRank)
}

// RankedUp reports whether after holds a higher rank than before.
func RankedUp(before, after Level) bool {
	return after.Rank > before.Rank
}

// Day returns the local calendar day key used to gate check-ins.
func Day(t time.Time) string {
	return t.Local().Format(dayLayout)
}

// Question is one yes/no check-in prompt. A "yes" is always the safe habit.
type Question struct {
	Text   string
	Impact string
}

// Questions is the daily check-in.
var Questions = []Question{
	{Text: "Did you use unique passwords for all your logins today?", Impact: "Prevents credential stuffing attacks."},
	{Text: "Is two-factor authentication on for your main social accounts?", Impact: "Stops most automated account takeovers."},
	{Text: "Did you skip every suspicious link or DM today?", Impact: "Phishing is the top way accounts get hijacked."},
	{Text: "Have you updated your phone and apps recently?", Impact: "Patches close holes attackers exploit."},
	{Text: "Is your social profile set to private?", Impact: "Keeps data miners and strangers out."},
}

// CheckinXP awards CheckinYesXP per positive answer.
func CheckinXP(answers []bool) int {
	xp := 0
	for _, yes := range answers {
		if yes {
			xp += CheckinYesXP
		}
	}
	return xp
}
