package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrTransition is returned when an explicit action has no edge from the current phase.
var ErrTransition = errors.New("phase transition not allowed")

// NewSession returns a session in its initial start state.
func NewSession(r Rules) Session {
	return Session{
		Phase:  PhaseStart,
		Shield: r.MaxShield,
		Level:  1,
	}
}

// Begin moves start -> playing and arms the first spawn.
func Begin(s Session, r Rules, now time.Time) (Session, error) {
	if s.Phase != PhaseStart {
		return s, fmt.Errorf("%w: begin from %s", ErrTransition, s.Phase)
	}
	out := NewSession(r)
	out.Phase = PhasePlaying
	out.Generation = s.Generation + 1
	out.NextSpawnAt = now.Add(r.InitialSpawnDelay)
	out.Tally = map[string]WordTally{}
	return out, nil
}

// Advance moves level-up -> playing, repairing the shield and raising the level.
func Advance(s Session, r Rules, now time.Time) (Session, error) {
	if s.Phase != PhaseLevelUp {
		return s, fmt.Errorf("%w: advance from %s", ErrTransition, s.Phase)
	}
	out := s.Clone()
	out.Phase = PhasePlaying
	out.Generation++
	out.Level++
	out.Progress = 0
	out.Shield = r.clampShield(s.Shield + r.ShieldRepair)
	out.Input = ""
	out.Threats = nil
	out.Projectiles = nil
	out.NextSpawnAt = now.Add(r.InitialSpawnDelay)
	return out, nil
}

// Restart moves end -> start, returning every counter to its initial value.
func Restart(s Session, r Rules) (Session, error) {
	if s.Phase != PhaseEnd {
		return s, fmt.Errorf("%w: restart from %s", ErrTransition, s.Phase)
	}
	out := NewSession(r)
	out.Generation = s.Generation + 1
	return out, nil
}

// Move advances every threat that has not been hit.
func Move(s Session) Session {
	if s.Phase != PhasePlaying {
		return s
	}
	out := s.Clone()
	for i := range out.Threats {
		if out.Threats[i].Hit {
			continue
		}
		out.Threats[i].Y += out.Threats[i].Speed
	}
	return out
}

// Breach removes unresolved threats below the breach line and applies one batched
// shield penalty for all of them. An exhausted shield ends the session.
func Breach(s Session, r Rules) (Session, []Threat) {
	if s.Phase != PhasePlaying {
		return s, nil
	}
	var breached []Threat
	kept := make([]Threat, 0, len(s.Threats))
	for _, t := range s.Threats {
		if t.Y > r.BreachLine && !t.Hit {
			breached = append(breached, t)
			continue
		}
		kept = append(kept, t)
	}
	if len(breached) == 0 {
		return s, nil
	}
	out := s.Clone()
	out.Threats = kept
	out.Shield = r.clampShield(s.Shield - len(breached)*r.BreachPenalty)
	out.Breached += len(breached)
	if out.Tally == nil {
		out.Tally = map[string]WordTally{}
	}
	for _, t := range breached {
		tally := out.Tally[t.Word]
		tally.Breached++
		out.Tally[t.Word] = tally
	}
	if out.Shield <= 0 {
		out.Shield = 0
		out.Phase = PhaseEnd
		out.Generation++
		out.Input = ""
	}
	return out, breached
}

// StepProjectiles advances projectiles and drops those past the overshoot threshold.
func StepProjectiles(s Session, r Rules) Session {
	if s.Phase != PhasePlaying || len(s.Projectiles) == 0 {
		return s
	}
	out := s.Clone()
	kept := out.Projectiles[:0]
	for _, p := range out.Projectiles {
		p.Progress += r.ProjectileStep
		if p.Progress > r.ProjectileOvershoot {
			continue
		}
		kept = append(kept, p)
	}
	out.Projectiles = kept
	return out
}

// SpawnDue reports whether the spawn timer has elapsed.
func SpawnDue(s Session, now time.Time) bool {
	return s.Phase == PhasePlaying && now.After(s.NextSpawnAt)
}

// Spawn adds a threat for term above the visible field and rearms the spawn timer.
func Spawn(s Session, r Rules, term Term, id int64, x float64, now time.Time) Session {
	if s.Phase != PhasePlaying {
		return s
	}
	out := s.Clone()
	out.Threats = append(out.Threats, Threat{
		ID:         id,
		Word:       term.Word,
		Definition: term.Definition,
		X:          x,
		Y:          r.SpawnY,
		Speed:      r.Speed(s.Level),
	})
	out.NextSpawnAt = now.Add(r.SpawnDelay(s.Level))
	return out
}

// Match records the current input text and, when it equals the word of a live threat,
// clears the input, launches a projectile and returns the deferred hit.
func Match(s Session, r Rules, text string, projectileID int64) (Session, Deferred, bool) {
	if s.Phase != PhasePlaying {
		return s, Deferred{}, false
	}
	out := s.Clone()
	out.Input = Normalize(text)
	idx := -1
	for i, t := range out.Threats {
		if t.Word == out.Input && !t.Hit && !t.Targeted {
			idx = i
			break
		}
	}
	if idx < 0 {
		return out, Deferred{}, false
	}
	target := &out.Threats[idx]
	target.Targeted = true
	out.Input = ""
	out.Projectiles = append(out.Projectiles, Projectile{
		ID:      projectileID,
		StartX:  r.OriginX,
		StartY:  r.OriginY,
		TargetX: target.X,
		TargetY: target.Y,
	})
	return out, Deferred{
		Kind:       DeferredMarkHit,
		ThreatID:   target.ID,
		Generation: out.Generation,
		Delay:      r.HitDelay,
	}, true
}

// MarkHit resolves a matched threat: it freezes the threat, awards points, records the
// intel and checks the level objective. It returns the follow-up removal, if any.
func MarkHit(s Session, r Rules, id int64, generation uint64) (Session, []Deferred) {
	if stale(s, generation) {
		return s, nil
	}
	idx := threatIndex(s.Threats, id)
	if idx < 0 || s.Threats[idx].Hit {
		return s, nil
	}
	out := s.Clone()
	t := &out.Threats[idx]
	t.Hit = true
	out.Score += r.Points(s.Level)
	out.Progress++
	out.Decrypted++
	out.Intel = Intel{Word: t.Word, Definition: t.Definition}
	out.HasIntel = true
	if out.Tally == nil {
		out.Tally = map[string]WordTally{}
	}
	tally := out.Tally[t.Word]
	tally.Decrypted++
	out.Tally[t.Word] = tally

	if out.Progress >= r.Target(out.Level) {
		out.Phase = PhaseLevelUp
		out.Generation++
		out.Progress = 0
		out.Input = ""
		out.Threats = nil
		return out, nil
	}
	return out, []Deferred{{
		Kind:       DeferredRemove,
		ThreatID:   id,
		Generation: out.Generation,
		Delay:      r.RemoveDelay,
	}}
}

// Remove drops a threat from the active set.
func Remove(s Session, id int64, generation uint64) Session {
	if stale(s, generation) {
		return s
	}
	idx := threatIndex(s.Threats, id)
	if idx < 0 {
		return s
	}
	out := s.Clone()
	out.Threats = append(out.Threats[:idx], out.Threats[idx+1:]...)
	return out
}

func stale(s Session, generation uint64) bool {
	return s.Phase != PhasePlaying || s.Generation != generation
}

func threatIndex(threats []Threat, id int64) int {
	for i, t := range threats {
		if t.ID == id {
			return i
		}
	}
	return -1
}
