package clearance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestForXPRollsOverEveryThousand(t *testing.T) {
	require.Equal(t, Level{Rank: 1, Into: 0, Total: 0}, ForXP(0))
	require.Equal(t, Level{Rank: 1, Into: 999, Total: 999}, ForXP(999))
	require.Equal(t, Level{Rank: 2, Into: 0, Total: 1000}, ForXP(1000))
	require.Equal(t, Level{Rank: 3, Into: 450, Total: 2450}, ForXP(2450))
	require.Equal(t, 1, ForXP(-5).Rank)
}

func TestRankedUp(t *testing.T) {
	require.True(t, RankedUp(ForXP(990), ForXP(1010)))
	require.False(t, RankedUp(ForXP(100), ForXP(990)))
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "Clearance 2 (50/1000 XP)", ForXP(1050).String())
}

func TestCheckinXP(t *testing.T) {
	require.Len(t, Questions, 5)
	require.Equal(t, 0, CheckinXP(nil))
	require.Equal(t, 60, CheckinXP([]bool{true, false, true, false, true}))
	require.Equal(t, 100, CheckinXP([]bool{true, true, true, true, true}))
}

func TestDayUsesLocalCalendar(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	require.Equal(t, "2026-03-14", Day(at))
}
