package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixedPicker struct {
	next int
	x    float64
}

func (p *fixedPicker) Pick(terms []Term, level int) (Term, bool) {
	eligible := Eligible(terms, level)
	if len(eligible) == 0 {
		return Term{}, false
	}
	t := eligible[p.next%len(eligible)]
	p.next++
	return t, true
}

func (p *fixedPicker) Float64() float64 {
	return p.x
}

type endRecorder struct {
	calls  int
	scores []int
}

func (r *endRecorder) record(score int) {
	r.calls++
	r.scores = append(r.scores, score)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *endRecorder) {
	t.Helper()
	rec := &endRecorder{}
	e := NewEngine(DefaultRules(), DefaultVocabulary(), &fixedPicker{x: 0.5}, rec.record)
	require.NoError(t, e.Begin(epoch))
	return e, rec
}

func threatAt(id int64, word string, y float64) Threat {
	return Threat{ID: id, Word: word, Definition: word + " def", X: 30, Y: y, Speed: 0.065}
}

func TestBeginResetsSession(t *testing.T) {
	e, _ := newTestEngine(t)
	s := e.Session()
	require.Equal(t, PhasePlaying, s.Phase)
	require.Equal(t, 0, s.Score)
	require.Equal(t, 100, s.Shield)
	require.Equal(t, 1, s.Level)
	require.Equal(t, 0, s.Progress)
	require.Empty(t, s.Threats)
	require.Empty(t, s.Projectiles)
	require.Equal(t, epoch.Add(time.Second), s.NextSpawnAt)
}

func TestInvalidTransitions(t *testing.T) {
	e := NewEngine(DefaultRules(), DefaultVocabulary(), &fixedPicker{}, nil)
	require.ErrorIs(t, e.Advance(epoch), ErrTransition)
	require.ErrorIs(t, e.Restart(), ErrTransition)

	require.NoError(t, e.Begin(epoch))
	require.ErrorIs(t, e.Begin(epoch), ErrTransition)
	require.ErrorIs(t, e.Advance(epoch), ErrTransition)
	require.ErrorIs(t, e.Restart(), ErrTransition)
}

func TestTickOutsidePlayingIsNoop(t *testing.T) {
	e := NewEngine(DefaultRules(), DefaultVocabulary(), &fixedPicker{}, nil)
	report := e.Tick(epoch.Add(time.Hour))
	require.Nil(t, report.Spawned)
	require.Equal(t, PhaseStart, e.Phase())
	require.Empty(t, e.Session().Threats)

	_, ok := e.Input("PHISHING")
	require.False(t, ok)
	require.Equal(t, "", e.Session().Input)
}

func TestFirstSpawnAfterInitialDelay(t *testing.T) {
	e, _ := newTestEngine(t)

	report := e.Tick(epoch.Add(999 * time.Millisecond))
	require.Nil(t, report.Spawned)

	now := epoch.Add(1001 * time.Millisecond)
	report = e.Tick(now)
	require.NotNil(t, report.Spawned)
	require.Equal(t, "PHISHING", report.Spawned.Word)
	require.InDelta(t, -10, report.Spawned.Y, 1e-9)
	require.InDelta(t, 50, report.Spawned.X, 1e-9)
	require.InDelta(t, 0.065, report.Spawned.Speed, 1e-9)
	require.Equal(t, now.Add(3700*time.Millisecond), e.Session().NextSpawnAt)
}

func TestThreatBreachesAfterExactFrames(t *testing.T) {
	e, _ := newTestEngine(t)
	now := epoch.Add(1001 * time.Millisecond)
	require.NotNil(t, e.Tick(now).Spawned)

	for i := 0; i < 1538; i++ {
		report := e.Tick(now)
		require.Empty(t, report.Breached, "frame %d", i+1)
	}
	require.Len(t, e.Session().Threats, 1)
	require.Equal(t, 100, e.Session().Shield)

	report := e.Tick(now)
	require.Len(t, report.Breached, 1)
	s := e.Session()
	require.Empty(t, s.Threats)
	require.Equal(t, 85, s.Shield)
	require.Equal(t, 1, s.Breached)
	require.Equal(t, 1, s.Tally["PHISHING"].Breached)
}

func TestSimultaneousBreachClampsShieldAndEndsOnce(t *testing.T) {
	e, rec := newTestEngine(t)
	e.session.Shield = 15
	e.session.Score = 200
	e.session.Threats = []Threat{threatAt(1, "DDOS", 90), threatAt(2, "MALWARE", 90)}

	report := e.Tick(epoch)
	require.True(t, report.Ended)
	require.Len(t, report.Breached, 2)

	s := e.Session()
	require.Equal(t, PhaseEnd, s.Phase)
	require.Equal(t, 0, s.Shield)
	require.Equal(t, 2, s.Breached)
	require.Equal(t, 1, rec.calls)
	require.Equal(t, []int{200}, rec.scores)

	e.Tick(epoch.Add(time.Minute))
	require.Equal(t, 1, rec.calls)
}

func TestMatchingSevenWordsLevelsUp(t *testing.T) {
	e, rec := newTestEngine(t)
	words := []string{"PHISHING", "MALWARE", "DDOS", "FIREWALL", "PHISHING", "MALWARE", "DDOS"}
	for i, w := range words {
		e.session.Threats = append(e.session.Threats, threatAt(int64(100+i), w, 0))
	}

	for i, w := range words {
		d, ok := e.Input(w)
		require.True(t, ok, "word %d", i)
		require.Equal(t, "", e.Session().Input)
		require.Equal(t, DeferredMarkHit, d.Kind)
		require.Equal(t, 120*time.Millisecond, d.Delay)

		next := e.Resolve(d)
		if i < len(words)-1 {
			require.Len(t, next, 1)
			require.Equal(t, DeferredRemove, next[0].Kind)
			require.LessOrEqual(t, e.Session().Progress, e.Session().Target(e.Rules()))
			e.Resolve(next[0])
		} else {
			require.Empty(t, next)
		}
	}

	s := e.Session()
	require.Equal(t, PhaseLevelUp, s.Phase)
	require.Equal(t, 350, s.Score)
	require.Equal(t, 0, s.Progress)
	require.Empty(t, s.Threats)
	require.Equal(t, 7, s.Decrypted)
	require.Equal(t, Intel{Word: "DDOS", Definition: "DDOS def"}, s.Intel)
	require.Equal(t, 0, rec.calls)
}

func TestPartialInputLeavesThreatsUnchanged(t *testing.T) {
	e, _ := newTestEngine(t)
	e.session.Threats = []Threat{threatAt(1, "PHISHING", 10), threatAt(2, "MALWARE", 20)}
	before := e.Session().Threats

	_, ok := e.Input("phish")
	require.False(t, ok)
	s := e.Session()
	require.Equal(t, "PHISH", s.Input)
	require.Equal(t, before, s.Threats)
	require.Empty(t, s.Projectiles)

	_, ok = e.Input("PHISHINGS")
	require.False(t, ok)
	require.Equal(t, before, e.Session().Threats)
}

func TestDuplicateWordsResolveInOrder(t *testing.T) {
	e, _ := newTestEngine(t)
	e.session.Threats = []Threat{threatAt(1, "BOTNET", 10), threatAt(2, "BOTNET", 40)}

	first, ok := e.Input("botnet")
	require.True(t, ok)
	require.Equal(t, int64(1), first.ThreatID)

	second, ok := e.Input("BOTNET")
	require.True(t, ok)
	require.Equal(t, int64(2), second.ThreatID)

	_, ok = e.Input("BOTNET")
	require.False(t, ok)

	e.Resolve(first)
	e.Resolve(first)
	require.Equal(t, 50, e.Session().Score)
	require.Len(t, e.Session().Projectiles, 2)
}

func TestMatchLaunchesProjectileFromOrigin(t *testing.T) {
	e, _ := newTestEngine(t)
	e.session.Threats = []Threat{{ID: 7, Word: "DDOS", X: 20, Y: 40, Speed: 0.065}}

	_, ok := e.Input("ddos")
	require.True(t, ok)
	p := e.Session().Projectiles[0]
	require.Equal(t, 50.0, p.StartX)
	require.Equal(t, 95.0, p.StartY)
	require.Equal(t, 20.0, p.TargetX)
	require.Equal(t, 40.0, p.TargetY)

	for i := 0; i < 9; i++ {
		e.Tick(epoch)
	}
	require.Len(t, e.Session().Projectiles, 1)
	e.Tick(epoch)
	require.Empty(t, e.Session().Projectiles)
}

func TestHitThreatStopsMoving(t *testing.T) {
	e, _ := newTestEngine(t)
	e.session.Threats = []Threat{threatAt(1, "FIREWALL", 89.99)}
	d, ok := e.Input("FIREWALL")
	require.True(t, ok)
	e.Resolve(d)

	for i := 0; i < 10; i++ {
		e.Tick(epoch)
	}
	s := e.Session()
	require.Len(t, s.Threats, 1)
	require.True(t, s.Threats[0].Hit)
	require.InDelta(t, 89.99, s.Threats[0].Y, 1e-9)
	require.Equal(t, 100, s.Shield)
}

func TestTargetedThreatBreachingBeforeHitScoresNothing(t *testing.T) {
	e, _ := newTestEngine(t)
	e.session.Threats = []Threat{threatAt(1, "ROOTKIT", 89.99)}
	d, ok := e.Input("ROOTKIT")
	require.True(t, ok)
	require.True(t, e.Session().Threats[0].Targeted)

	e.Tick(epoch)
	s := e.Session()
	require.Empty(t, s.Threats)
	require.Equal(t, 85, s.Shield)
	require.Equal(t, 1, s.Breached)

	require.Empty(t, e.Resolve(d))
	s = e.Session()
	require.Equal(t, 0, s.Score)
	require.Equal(t, 0, s.Progress)
	require.Equal(t, 0, s.Decrypted)
	require.False(t, s.HasIntel)
}

func TestDeferredActionsIgnoredAfterPhaseChange(t *testing.T) {
	e, rec := newTestEngine(t)
	e.session.Shield = 15
	e.session.Threats = []Threat{threatAt(1, "SPYWARE", 10), threatAt(2, "DDOS", 90)}

	d, ok := e.Input("SPYWARE")
	require.True(t, ok)
	e.Tick(epoch)
	require.Equal(t, PhaseEnd, e.Phase())

	require.Empty(t, e.Resolve(d))
	require.Equal(t, 0, e.Session().Score)

	require.NoError(t, e.Restart())
	require.NoError(t, e.Begin(epoch))
	e.session.Threats = []Threat{threatAt(1, "SPYWARE", 10)}
	require.Empty(t, e.Resolve(d))
	require.Equal(t, 0, e.Session().Score)
	require.False(t, e.Session().Threats[0].Hit)
	require.Equal(t, 1, rec.calls)
}

func TestAdvanceRepairsShieldAndRaisesLevel(t *testing.T) {
	e, _ := newTestEngine(t)
	e.session.Phase = PhaseLevelUp
	e.session.Shield = 50
	now := epoch.Add(time.Minute)

	require.NoError(t, e.Advance(now))
	s := e.Session()
	require.Equal(t, PhasePlaying, s.Phase)
	require.Equal(t, 2, s.Level)
	require.Equal(t, 70, s.Shield)
	require.Equal(t, 0, s.Progress)
	require.Equal(t, now.Add(time.Second), s.NextSpawnAt)

	e.session.Phase = PhaseLevelUp
	e.session.Shield = 95
	require.NoError(t, e.Advance(now))
	require.Equal(t, 100, e.Session().Shield)
	require.Equal(t, 3, e.Session().Level)
}

func TestRoundTripReturnsInitialState(t *testing.T) {
	e, rec := newTestEngine(t)
	e.session.Progress = 6
	e.session.Threats = []Threat{threatAt(1, "MALWARE", 10)}
	d, ok := e.Input("MALWARE")
	require.True(t, ok)
	e.Resolve(d)
	require.Equal(t, PhaseLevelUp, e.Phase())

	require.NoError(t, e.Advance(epoch))
	e.session.Shield = 10
	e.session.Threats = []Threat{threatAt(2, "BOTNET", 95)}
	e.Tick(epoch)
	require.Equal(t, PhaseEnd, e.Phase())
	require.Equal(t, []int{50}, rec.scores)

	require.NoError(t, e.Restart())
	s := e.Session()
	require.Equal(t, PhaseStart, s.Phase)
	require.Equal(t, 0, s.Score)
	require.Equal(t, 100, s.Shield)
	require.Equal(t, 1, s.Level)
	require.Equal(t, 0, s.Progress)
	require.Empty(t, s.Threats)

	require.NoError(t, e.Begin(epoch))
	e.session.Shield = 15
	e.session.Threats = []Threat{threatAt(3, "DDOS", 95)}
	e.Tick(epoch)
	require.Equal(t, 2, rec.calls)
}

func TestShieldAlwaysWithinRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		e, _ := newTestEngine(t)
		e.session.Shield = 1 + rnd.Intn(100)
		n := rnd.Intn(10)
		for i := 0; i < n; i++ {
			y := 80 + rnd.Float64()*20
			e.session.Threats = append(e.session.Threats, threatAt(int64(i+1), "DDOS", y))
		}
		wasAlive := e.session.Shield > 0
		e.Tick(epoch)
		s := e.Session()
		require.GreaterOrEqual(t, s.Shield, 0)
		require.LessOrEqual(t, s.Shield, 100)
		if s.Phase == PhaseEnd {
			require.True(t, wasAlive)
			require.Equal(t, 0, s.Shield)
		}
	}
}

func TestNoSpawnWithoutEligibleTerms(t *testing.T) {
	e := NewEngine(DefaultRules(), []Term{{Word: "BOTNET", MinLevel: 2}}, &fixedPicker{}, nil)
	require.NoError(t, e.Begin(epoch))
	now := epoch.Add(2 * time.Second)
	report := e.Tick(now)
	require.Nil(t, report.Spawned)
	require.Equal(t, now.Add(3700*time.Millisecond), e.Session().NextSpawnAt)
}
