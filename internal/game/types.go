// Package game implements the typed-word defense loop: phases, spawning, movement,
// breaches, input matching and level progression.
package game

import "time"

// Phase is the discrete mode of a game session.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlaying
	PhaseLevelUp
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhasePlaying:
		return "playing"
	case PhaseLevelUp:
		return "level-up"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Term is a vocabulary entry.
type Term struct {
	Word       string
	Definition string
	MinLevel   int
}

// Threat is a falling entity labelled with a word the player must type.
// X and Y are percentages of the play field.
type Threat struct {
	ID         int64
	Word       string
	Definition string
	X          float64
	Y          float64
	Speed      float64
	Hit        bool
	// Targeted is set when a projectile is already in flight toward the threat.
	Targeted bool
}

// Projectile is visual feedback for a successful match.
type Projectile struct {
	ID       int64
	StartX   float64
	StartY   float64
	TargetX  float64
	TargetY  float64
	Progress float64
}

// Position interpolates the projectile between origin and target.
func (p Projectile) Position() (x, y float64) {
	x = p.StartX + (p.TargetX-p.StartX)*p.Progress
	y = p.StartY + (p.TargetY-p.StartY)*p.Progress
	return x, y
}

// Intel is the last decrypted word shown to the player.
type Intel struct {
	Word       string
	Definition string
}

// WordTally counts outcomes for one vocabulary word within a run.
type WordTally struct {
	Decrypted int
	Breached  int
}

// Session is the complete state of one game session.
type Session struct {
	Phase    Phase
	Score    int
	Shield   int
	Level    int
	Progress int
	Input    string

	Threats     []Threat
	Projectiles []Projectile

	Intel    Intel
	HasIntel bool

	NextSpawnAt time.Time
	// Generation changes on every phase transition; deferred actions carry the
	// generation they were scheduled in.
	Generation uint64

	Decrypted int
	Breached  int
	Tally     map[string]WordTally
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Threats = append([]Threat(nil), s.Threats...)
	out.Projectiles = append([]Projectile(nil), s.Projectiles...)
	if s.Tally != nil {
		out.Tally = make(map[string]WordTally, len(s.Tally))
		for k, v := range s.Tally {
			out.Tally[k] = v
		}
	}
	return out
}

// Target is the level-progress needed to clear the current level.
func (s Session) Target(r Rules) int {
	return r.Target(s.Level)
}

// DeferredKind identifies a delayed action scheduled by an input match.
type DeferredKind int

const (
	DeferredMarkHit DeferredKind = iota
	DeferredRemove
)

// Deferred is an action the host must run after Delay elapses.
type Deferred struct {
	Kind       DeferredKind
	ThreatID   int64
	Generation uint64
	Delay      time.Duration
}
