package dyn4j

import (
	"fmt"
	"math"

	"github.com/caarlos0/env/v11"
)

func Assert(a bool) {
	if !a {
		panic("dyn4j: assertion failed")
	}
}

const MaxFloat = math.MaxFloat64
const Epsilon = 1e-12

/// @file
/// Tuning constants based on meters-kilograms-seconds (MKS) units.
///

// Collision

/// The maximum number of contact points between two convex shapes. Do
/// not change this value.
const MaxManifoldPoints = 2

/// The maximum number of vertices on a convex polygon.
const MaxPolygonVertices = 8

/// This is used to fatten AABBs in the broad-phase. This allows proxies
/// to move by a small amount without triggering a pair update.
/// This is in meters.
const AABBExtension = 0.1

/// Settings configures a World. Every field can be overridden from the
/// environment through LoadSettings.
type Settings struct {
	/// Passes of the velocity phase per step.
	VelocityIterations int `env:"DYN4J_VELOCITY_ITERATIONS" envDefault:"10"`

	/// Passes of the position phase per step.
	PositionIterations int `env:"DYN4J_POSITION_ITERATIONS" envDefault:"10"`

	/// Allowed penetration. Usually chosen to be numerically significant,
	/// but visually insignificant.
	LinearTolerance float64 `env:"DYN4J_LINEAR_TOLERANCE" envDefault:"0.005"`

	/// The maximum linear position correction used when solving constraints. This helps to
	/// prevent overshoot.
	MaxLinearCorrection float64 `env:"DYN4J_MAX_LINEAR_CORRECTION" envDefault:"0.2"`

	/// Allowed angular error for angle constraints. Validated and carried for
	/// configuration compatibility; the mouse and pulley joints constrain
	/// points only and never read it.
	AngularTolerance float64 `env:"DYN4J_ANGULAR_TOLERANCE" envDefault:"0.03490658503988659"`

	/// The maximum angular position correction for angle constraints. Like
	/// AngularTolerance it has no reader among the current joints.
	MaxAngularCorrection float64 `env:"DYN4J_MAX_ANGULAR_CORRECTION" envDefault:"0.13962634015954636"`

	/// A velocity threshold for elastic collisions. Any collision with a relative linear
	/// velocity below this threshold will be treated as inelastic.
	RestitutionVelocityThreshold float64 `env:"DYN4J_RESTITUTION_VELOCITY_THRESHOLD" envDefault:"1.0"`

	/// Bodies that move further than this in one step are swept by the TOI solver.
	MaxTranslationPerStep float64 `env:"DYN4J_MAX_TRANSLATION_PER_STEP" envDefault:"2.0"`

	/// The maximum rotation of a body per step. This limit is very large and is used
	/// to prevent numerical problems.
	MaxRotationPerStep float64 `env:"DYN4J_MAX_ROTATION_PER_STEP" envDefault:"1.5707963267948966"`

	/// This scale factor controls how fast overlap is resolved. Ideally this would be 1 so
	/// that overlap is removed in one time step. However using values close to 1 often lead
	/// to overshoot.
	Baumgarte float64 `env:"DYN4J_BAUMGARTE" envDefault:"0.2"`

	WarmStarting        bool `env:"DYN4J_WARM_STARTING" envDefault:"true"`
	ContinuousCollision bool `env:"DYN4J_CONTINUOUS_COLLISION" envDefault:"true"`
	AllowSleep          bool `env:"DYN4J_ALLOW_SLEEP" envDefault:"true"`

	/// The time that a body must be still before it will go to sleep.
	TimeToSleep float64 `env:"DYN4J_TIME_TO_SLEEP" envDefault:"0.5"`

	/// A body cannot sleep if its linear velocity is above this tolerance.
	LinearSleepTolerance float64 `env:"DYN4J_LINEAR_SLEEP_TOLERANCE" envDefault:"0.01"`

	/// A body cannot sleep if its angular velocity is above this tolerance.
	AngularSleepTolerance float64 `env:"DYN4J_ANGULAR_SLEEP_TOLERANCE" envDefault:"0.03490658503988659"`

	MaxTOIIterations int `env:"DYN4J_MAX_TOI_ITERATIONS" envDefault:"30"`
}

func DefaultSettings() Settings {
	return Settings{
		VelocityIterations:           10,
		PositionIterations:           10,
		LinearTolerance:              0.005,
		MaxLinearCorrection:          0.2,
		AngularTolerance:             2.0 / 180.0 * math.Pi,
		MaxAngularCorrection:         8.0 / 180.0 * math.Pi,
		RestitutionVelocityThreshold: 1.0,
		MaxTranslationPerStep:        2.0,
		MaxRotationPerStep:           0.5 * math.Pi,
		Baumgarte:                    0.2,
		WarmStarting:                 true,
		ContinuousCollision:          true,
		AllowSleep:                   true,
		TimeToSleep:                  0.5,
		LinearSleepTolerance:         0.01,
		AngularSleepTolerance:        2.0 / 180.0 * math.Pi,
		MaxTOIIterations:             30,
	}
}

// LoadSettings reads Settings from the process environment, falling back
// to the defaults for unset variables.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, &Error{Code: CodeInvalidSettings, Message: fmt.Sprintf("parse env: %v", err)}
	}
	return s, s.Validate()
}

// LoadSettingsFrom is LoadSettings over an explicit environment.
func LoadSettingsFrom(environment map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environment}); err != nil {
		return Settings{}, &Error{Code: CodeInvalidSettings, Message: fmt.Sprintf("parse env: %v", err)}
	}
	return s, s.Validate()
}

func (s Settings) Validate() error {
	switch {
	case s.VelocityIterations <= 0:
		return invalidSettings("VelocityIterations", "must be positive")
	case s.PositionIterations <= 0:
		return invalidSettings("PositionIterations", "must be positive")
	case !(s.LinearTolerance > 0):
		return invalidSettings("LinearTolerance", "must be positive")
	case !(s.MaxLinearCorrection > 0):
		return invalidSettings("MaxLinearCorrection", "must be positive")
	case !(s.AngularTolerance > 0):
		return invalidSettings("AngularTolerance", "must be positive")
	case !(s.MaxAngularCorrection > 0):
		return invalidSettings("MaxAngularCorrection", "must be positive")
	case s.RestitutionVelocityThreshold < 0:
		return invalidSettings("RestitutionVelocityThreshold", "must not be negative")
	case !(s.MaxTranslationPerStep > 0):
		return invalidSettings("MaxTranslationPerStep", "must be positive")
	case !(s.MaxRotationPerStep > 0):
		return invalidSettings("MaxRotationPerStep", "must be positive")
	case !(s.Baumgarte > 0) || s.Baumgarte > 1:
		return invalidSettings("Baumgarte", "must be in (0, 1]")
	case s.MaxTOIIterations <= 0:
		return invalidSettings("MaxTOIIterations", "must be positive")
	}
	return nil
}

func invalidSettings(param, msg string) error {
	return &Error{Code: CodeInvalidSettings, Param: param, Message: param + " " + msg}
}

/// Friction mixing law. The idea is to allow either fixture to drive the friction to zero.
/// For example, anything slides on ice.
func MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is allow for anything to bounce off an inelastic surface.
/// For example, a superball bounces on anything.
func MixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}
	return restitution2
}
