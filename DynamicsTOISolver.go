package dyn4j

import (
	"math"
)

// A candidate impact found while sweeping a fast body.
type toiImpact struct {
	fixtureA   *Fixture
	fixtureB   *Fixture
	t          float64
	separation Separation
}

// Bodies that moved further than their smallest feature this step, or that
// are flagged as bullets, may have passed through something thin.
func (world *World) isFastBody(body *Body, settings *Settings) bool {
	if body.bodyType != BodyType.E_dynamicBody || !body.IsAwake() {
		return false
	}

	hasSolid := false
	for _, f := range body.GetFixtures() {
		if !f.isSensor {
			hasSolid = true
			break
		}
	}
	if !hasSolid {
		return false
	}

	if body.IsBullet() {
		return true
	}

	translation := Vec2Distance(body.sweep.C, body.sweep.C0)
	return translation > math.Min(settings.MaxTranslationPerStep, body.minExtent())
}

// Find the earliest touching impact of a fast body against anything its
// swept bounds overlap.
func (world *World) findFirstImpact(body *Body, settings *Settings) (toiImpact, bool) {
	broadPhase := &world.contactManager.broadPhase
	filter := world.contactManager.contactFilter

	xf0 := body.sweep.GetTransform(0.0)
	xf1 := body.xf

	best := toiImpact{t: MaxFloat}
	found := false

	for _, fixtureA := range body.GetFixtures() {
		if fixtureA.isSensor {
			continue
		}

		swept := fixtureA.shape.ComputeAABB(xf0)
		swept.CombineInPlace(fixtureA.shape.ComputeAABB(xf1))

		broadPhase.Query(func(proxyID int) bool {
			fixtureB := world.arena.fixture(broadPhase.GetFixture(proxyID))
			if fixtureB == nil || fixtureB.isSensor || fixtureB.body == body.id {
				return true
			}

			other := fixtureB.GetBody()
			if !body.ShouldCollide(other) {
				return true
			}
			if filter != nil && !filter.ShouldCollide(fixtureA, fixtureB) {
				return true
			}

			input := TOIInput{
				ShapeA: fixtureA.shape,
				ShapeB: fixtureB.shape,
				SweepA: body.sweep,
				SweepB: other.sweep,
				TMax:   1.0,
			}

			var output TOIOutput
			ConservativeAdvancement(&output, &input, *settings)

			switch output.State {
			case TOIOutputState.E_touching:
				if output.T < best.t {
					best = toiImpact{
						fixtureA:   fixtureA,
						fixtureB:   fixtureB,
						t:          output.T,
						separation: output.Separation,
					}
					found = true
				}
			case TOIOutputState.E_failed:
				if world.logger != nil {
					world.logger.Printf("dyn4j: time of impact search failed for bodies %d and %d after %d iterations",
						body.id, other.id, output.Iterations)
				}
			}

			return true
		}, swept)
	}

	return best, found
}

// Move a body back along its sweep to the time of impact. Velocities are
// kept.
func rewindBody(body *Body, t float64) {
	if body.bodyType == BodyType.E_staticBody {
		return
	}
	body.sweep.Advance(t)
	body.sweep.C = body.sweep.C0
	body.sweep.A = body.sweep.A0
	body.sweep.Alpha0 = 0.0
	body.SynchronizeTransform()
}

// Nudge a rewound pair into contact so the discrete solver picks it up next
// step. The resulting penetration stays within the linear tolerance.
func resolveImpact(impact *toiImpact, settings *Settings) {
	bodyA := impact.fixtureA.GetBody()
	bodyB := impact.fixtureB.GetBody()

	sep := impact.separation
	n := sep.Normal

	C := FloatClamp(sep.Distance-settings.LinearTolerance, -settings.MaxLinearCorrection, 0.0)
	if C == 0.0 {
		return
	}

	mA, iA := bodyA.invMass, bodyA.invI
	mB, iB := bodyB.invMass, bodyB.invI

	rA := Vec2Sub(sep.PointA, bodyA.sweep.C)
	rB := Vec2Sub(sep.PointB, bodyB.sweep.C)

	rnA := Vec2Cross(rA, n)
	rnB := Vec2Cross(rB, n)
	K := mA + mB + iA*rnA*rnA + iB*rnB*rnB
	if K <= 0.0 {
		return
	}

	impulse := -C / K
	P := Vec2MulScalar(impulse, n)

	// The normal points from A to B; closing the gap moves A along it.
	bodyA.sweep.C.AddInPlace(Vec2MulScalar(mA, P))
	bodyA.sweep.A += iA * Vec2Cross(rA, P)
	bodyB.sweep.C.SubInPlace(Vec2MulScalar(mB, P))
	bodyB.sweep.A -= iB * Vec2Cross(rB, P)

	for _, b := range [2]*Body{bodyA, bodyB} {
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A
		b.SynchronizeTransform()
	}
}

// Sweep every fast body against the world and stop it at its first impact.
// Returns the number of impacts resolved.
func (world *World) solveTOI(step TimeStep) int {
	settings := &step.Settings
	impacts := 0

	for _, body := range world.arena.bodies {
		if body == nil || !world.isFastBody(body, settings) {
			continue
		}

		impact, ok := world.findFirstImpact(body, settings)
		if !ok {
			continue
		}

		other := impact.fixtureB.GetBody()
		rewindBody(body, impact.t)
		rewindBody(other, impact.t)

		resolveImpact(&impact, settings)

		body.SynchronizeFixtures()
		if other.bodyType != BodyType.E_staticBody {
			other.SynchronizeFixtures()
		}

		impacts++
	}

	return impacts
}
