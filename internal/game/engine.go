package game

import "time"

// Picker chooses what to spawn.
type Picker interface {
	// Pick returns a term eligible at level, or false when none is.
	Pick(terms []Term, level int) (Term, bool)
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// EndFunc receives the final score when the shield is exhausted.
type EndFunc func(score int)

// TickReport describes what a single frame changed.
type TickReport struct {
	Breached []Threat
	Spawned  *Threat
	Ended    bool
}

// Engine owns a Session and serializes every event applied to it. It is not safe for
// concurrent use; the host delivers frames, inputs and deferred actions one at a time.
type Engine struct {
	rules  Rules
	vocab  []Term
	picker Picker
	onEnd  EndFunc

	session  Session
	nextID   int64
	endFired bool
}

// NewEngine constructs an engine in the start phase.
func NewEngine(rules Rules, vocab []Term, picker Picker, onEnd EndFunc) *Engine {
	return &Engine{
		rules:   rules,
		vocab:   vocab,
		picker:  picker,
		onEnd:   onEnd,
		session: NewSession(rules),
	}
}

// Rules returns the engine tuning.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Session returns a copy of the current state.
func (e *Engine) Session() Session {
	return e.session.Clone()
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.session.Phase
}

// Generation returns the current session generation.
func (e *Engine) Generation() uint64 {
	return e.session.Generation
}

// Begin starts a new session.
func (e *Engine) Begin(now time.Time) error {
	s, err := Begin(e.session, e.rules, now)
	if err != nil {
		return err
	}
	e.session = s
	e.endFired = false
	return nil
}

// Advance continues to the next level.
func (e *Engine) Advance(now time.Time) error {
	s, err := Advance(e.session, e.rules, now)
	if err != nil {
		return err
	}
	e.session = s
	return nil
}

// Restart returns a finished session to the start screen.
func (e *Engine) Restart() error {
	s, err := Restart(e.session, e.rules)
	if err != nil {
		return err
	}
	e.session = s
	return nil
}

// Tick runs one frame: movement, breaches, projectiles, then the spawn timer.
func (e *Engine) Tick(now time.Time) TickReport {
	var report TickReport
	if e.session.Phase != PhasePlaying {
		return report
	}
	s := Move(e.session)
	s, report.Breached = Breach(s, e.rules)
	if s.Phase == PhaseEnd {
		e.session = s
		report.Ended = true
		e.fireEnd()
		return report
	}
	s = StepProjectiles(s, e.rules)
	if SpawnDue(s, now) {
		term, ok := e.picker.Pick(e.vocab, s.Level)
		if ok {
			x := e.rules.MinX + e.picker.Float64()*(e.rules.MaxX-e.rules.MinX)
			s = Spawn(s, e.rules, term, e.newID(), x, now)
			spawned := s.Threats[len(s.Threats)-1]
			report.Spawned = &spawned
		} else {
			s.NextSpawnAt = now.Add(e.rules.SpawnDelay(s.Level))
		}
	}
	e.session = s
	return report
}

// Input applies the current text of the input field. On a match it returns the
// deferred hit the host must schedule.
func (e *Engine) Input(text string) (Deferred, bool) {
	if e.session.Phase != PhasePlaying {
		return Deferred{}, false
	}
	s, d, ok := Match(e.session, e.rules, text, e.newID())
	e.session = s
	return d, ok
}

// Resolve runs a deferred action. Stale actions are ignored. It returns follow-up
// actions to schedule.
func (e *Engine) Resolve(d Deferred) []Deferred {
	switch d.Kind {
	case DeferredMarkHit:
		s, next := MarkHit(e.session, e.rules, d.ThreatID, d.Generation)
		e.session = s
		return next
	case DeferredRemove:
		e.session = Remove(e.session, d.ThreatID, d.Generation)
	}
	return nil
}

func (e *Engine) fireEnd() {
	if e.endFired {
		return
	}
	e.endFired = true
	if e.onEnd != nil {
		e.onEnd(e.session.Score)
	}
}

func (e *Engine) newID() int64 {
	e.nextID++
	return e.nextID
}
