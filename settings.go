package feather2d

import "github.com/akmonengine/feather2d/geom"

// Settings is the embedder-configured tuning surface for a World: iteration
// counts, thresholds, step frequency and CCD mode. Grounded on world.go's
// public-field configuration style (World.Gravity/Substeps/Workers set
// directly by the embedder, no builder or config-file layer) — feather2d
// keeps that plain-struct convention rather than introducing a config
// parsing library the teacher never reaches for.
type Settings struct {
	// VelocityIterations is the number of sequential-impulse velocity solve
	// passes per step (spec.md §4.7 default: 10).
	VelocityIterations int
	// PositionIterations is the number of Baumgarte split-impulse position
	// correction passes per step (spec.md §4.7 default: 5).
	PositionIterations int

	// Baumgarte is the position-correction bias factor (spec.md §4.7
	// default: 0.2).
	Baumgarte float64
	// LinearSlop is the allowed penetration slop before correction kicks in
	// (spec.md §4.7 default: 0.005).
	LinearSlop float64
	// MaxLinearCorrection caps how much a single position solve step may
	// move a body, preventing overshoot on deep penetrations.
	MaxLinearCorrection float64
	// RestitutionThreshold is the minimum closing speed for restitution to
	// apply at all (spec.md §4.7 default: 1.0); slower contacts are treated
	// as inelastic to avoid resting-contact jitter.
	RestitutionThreshold float64

	// SleepLinearVelocity/SleepAngularVelocity are the thresholds a body's
	// velocities must stay under for SleepTimeThreshold seconds before it
	// is put to sleep (spec.md §4.6).
	SleepLinearVelocity  float64
	SleepAngularVelocity float64
	SleepTimeThreshold   float64

	// CCDEnabled toggles conservative-advancement time-of-impact resolution
	// for bullet bodies (spec.md §4.8).
	CCDEnabled bool

	// FixedTimestep is the step duration World.Update's accumulator drains
	// in (spec.md §6 default: 1/60).
	FixedTimestep float64
	// MaxSubSteps bounds the number of fixed steps a single World.Update
	// call may run, so a long stall doesn't trigger a "spiral of death".
	MaxSubSteps int

	Gravity geom.Vec2
}

// DefaultSettings returns the spec-mandated defaults (spec.md §4.7/§6).
func DefaultSettings() Settings {
	return Settings{
		VelocityIterations:   10,
		PositionIterations:   5,
		Baumgarte:            0.2,
		LinearSlop:           0.005,
		MaxLinearCorrection:  0.2,
		RestitutionThreshold: 1.0,
		SleepLinearVelocity:  0.01,
		SleepAngularVelocity: 0.01,
		SleepTimeThreshold:   0.5,
		CCDEnabled:           true,
		FixedTimestep:        1.0 / 60.0,
		MaxSubSteps:          4,
		Gravity:              geom.Vec2{0, -9.8},
	}
}
