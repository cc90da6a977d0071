package game

import "time"

// Rules holds the tuning constants of the game loop.
type Rules struct {
	BreachLine    float64
	BreachPenalty int
	MaxShield     int
	ShieldRepair  int

	SpawnY        float64
	MinX          float64
	MaxX          float64
	BaseSpeed     float64
	SpeedPerLevel float64

	InitialSpawnDelay  time.Duration
	BaseSpawnDelay     time.Duration
	SpawnDelayPerLevel time.Duration
	MinSpawnDelay      time.Duration

	ProjectileStep      float64
	ProjectileOvershoot float64
	OriginX             float64
	OriginY             float64

	HitDelay    time.Duration
	RemoveDelay time.Duration

	PointsPerLevel int
	BaseTarget     int
	TargetPerLevel int
}

// DefaultRules returns the standard tuning, expressed for a ~60fps frame cadence.
func DefaultRules() Rules {
	return Rules{
		BreachLine:    90,
		BreachPenalty: 15,
		MaxShield:     100,
		ShieldRepair:  20,

		SpawnY:        -10,
		MinX:          10,
		MaxX:          90,
		BaseSpeed:     0.05,
		SpeedPerLevel: 0.015,

		InitialSpawnDelay:  1000 * time.Millisecond,
		BaseSpawnDelay:     4000 * time.Millisecond,
		SpawnDelayPerLevel: 300 * time.Millisecond,
		MinSpawnDelay:      2000 * time.Millisecond,

		ProjectileStep:      0.12,
		ProjectileOvershoot: 1.1,
		OriginX:             50,
		OriginY:             95,

		HitDelay:    120 * time.Millisecond,
		RemoveDelay: 300 * time.Millisecond,

		PointsPerLevel: 50,
		BaseTarget:     5,
		TargetPerLevel: 2,
	}
}

// Target returns the level-progress objective for a level.
func (r Rules) Target(level int) int {
	return r.BaseTarget + level*r.TargetPerLevel
}

// Speed returns the descent speed in units per frame for a level.
func (r Rules) Speed(level int) float64 {
	return r.BaseSpeed + float64(level)*r.SpeedPerLevel
}

// SpawnDelay returns the delay before the next spawn at a level.
func (r Rules) SpawnDelay(level int) time.Duration {
	d := r.BaseSpawnDelay - time.Duration(level)*r.SpawnDelayPerLevel
	if d < r.MinSpawnDelay {
		return r.MinSpawnDelay
	}
	return d
}

// Points returns the score awarded for one decrypted word at a level.
func (r Rules) Points(level int) int {
	return level * r.PointsPerLevel
}

func (r Rules) clampShield(v int) int {
	if v < 0 {
		return 0
	}
	if v > r.MaxShield {
		return r.MaxShield
	}
	return v
}
