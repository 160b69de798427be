package dyn4j

import (
	"math"
)

/// An island is a connected group of awake bodies, their touching contacts and
/// their joints. Islands are solved independently. Positions and velocities
/// live in compact arrays indexed by the island index of each body.
type Island struct {
	listener ContactListener

	bodies   []*Body
	contacts []*Contact
	joints   []Joint

	positions  []Position
	velocities []Velocity

	positionSolved bool
}

func MakeIsland(bodyCapacity int, contactCapacity int, jointCapacity int, listener ContactListener) Island {
	return Island{
		listener:   listener,
		bodies:     make([]*Body, 0, bodyCapacity),
		contacts:   make([]*Contact, 0, contactCapacity),
		joints:     make([]Joint, 0, jointCapacity),
		positions:  make([]Position, 0, bodyCapacity),
		velocities: make([]Velocity, 0, bodyCapacity),
	}
}

func (island *Island) Clear() {
	island.bodies = island.bodies[:0]
	island.contacts = island.contacts[:0]
	island.joints = island.joints[:0]
	island.positionSolved = false
}

func (island *Island) AddBody(body *Body) {
	body.islandIndex = len(island.bodies)
	island.bodies = append(island.bodies, body)
}

func (island *Island) AddContact(contact *Contact) {
	island.contacts = append(island.contacts, contact)
}

func (island *Island) AddJoint(joint Joint) {
	island.joints = append(island.joints, joint)
}

func (island *Island) GetBodies() []*Body {
	return island.bodies
}

// Integrate forces, run the pre-solve hook, then solve velocities and
// positions of the island. Bodies get their new sweep and transform; the
// broad phase is left to the caller.
func (island *Island) Solve(profile *Profile, step TimeStep, gravity Vec2) {
	timer := MakeTimer()
	settings := &step.Settings

	h := step.Dt

	bodyCount := len(island.bodies)
	if cap(island.positions) < bodyCount {
		island.positions = make([]Position, bodyCount)
		island.velocities = make([]Velocity, bodyCount)
	}
	island.positions = island.positions[:bodyCount]
	island.velocities = island.velocities[:bodyCount]

	// Integrate velocities and apply damping. Initialize the body state.
	for i, b := range island.bodies {
		c := b.sweep.C
		a := b.sweep.A
		v := b.linearVelocity
		w := b.angularVelocity

		// Store positions for continuous collision.
		b.sweep.C0 = b.sweep.C
		b.sweep.A0 = b.sweep.A

		if b.bodyType == BodyType.E_dynamicBody {
			// Integrate velocities.
			v.AddInPlace(
				Vec2MulScalar(
					h,
					Vec2Add(
						Vec2MulScalar(b.gravityScale, gravity),
						Vec2MulScalar(b.invMass, b.force),
					),
				),
			)
			w += h * b.invI * b.torque

			// Apply damping.
			// ODE: dv/dt + c * v = 0
			// Solution: v(t) = v0 * exp(-c * t)
			// Time step: v(t + dt) = v0 * exp(-c * (t + dt)) = v0 * exp(-c * t) * exp(-c * dt) = v * exp(-c * dt)
			// v2 = exp(-c * dt) * v1
			// Pade approximation:
			// v2 = v1 * 1 / (1 + c * dt)
			v.ScaleInPlace(1.0 / (1.0 + h*b.linearDamping))
			w *= 1.0 / (1.0 + h*b.angularDamping)
		}

		island.positions[i] = Position{C: c, A: a}
		island.velocities[i] = Velocity{V: v, W: w}
	}

	timer.Reset()

	// Let the user inspect and disable contacts before the solver sees them.
	contacts := island.contacts
	if island.listener != nil {
		enabled := make([]*Contact, 0, len(island.contacts))
		for _, c := range island.contacts {
			island.listener.PreSolve(c, &c.oldManifold)
			if c.IsEnabled() {
				enabled = append(enabled, c)
			}
		}
		contacts = enabled
	}

	solverData := SolverData{
		Step:       step,
		Positions:  island.positions,
		Velocities: island.velocities,
	}

	contactSolverDef := ContactSolverDef{
		Step:       step,
		Contacts:   contacts,
		Positions:  island.positions,
		Velocities: island.velocities,
	}

	contactSolver := MakeContactSolver(&contactSolverDef)
	contactSolver.InitializeVelocityConstraints()

	if step.WarmStarting {
		contactSolver.WarmStart()
	}

	for _, joint := range island.joints {
		joint.InitVelocityConstraints(solverData)
		joint.WarmStart(solverData)
	}

	profile.SolveInit += timer.GetMilliseconds()

	// Solve velocity constraints
	timer.Reset()
	for i := 0; i < step.VelocityIterations; i++ {
		for _, joint := range island.joints {
			joint.SolveVelocityConstraints(solverData)
		}

		contactSolver.SolveVelocityConstraints()
	}

	// Store impulses for warm starting
	contactSolver.StoreImpulses()
	profile.SolveVelocity += timer.GetMilliseconds()

	island.report(&contactSolver, contacts)

	// Integrate positions
	for i := range island.bodies {
		c := island.positions[i].C
		a := island.positions[i].A
		v := island.velocities[i].V
		w := island.velocities[i].W

		// Check for large rotations. Large translations are left to the
		// time of impact solver.
		rotation := h * w
		if math.Abs(rotation) > settings.MaxRotationPerStep {
			ratio := settings.MaxRotationPerStep / math.Abs(rotation)
			w *= ratio
		}

		// Integrate
		c.AddInPlace(Vec2MulScalar(h, v))
		a += h * w

		island.positions[i].C = c
		island.positions[i].A = a
		island.velocities[i].V = v
		island.velocities[i].W = w
	}

	// Solve position constraints
	timer.Reset()
	island.positionSolved = false
	for i := 0; i < step.PositionIterations; i++ {
		contactsOkay := contactSolver.SolvePositionConstraints()

		jointsOkay := true
		for _, joint := range island.joints {
			jointOkay := joint.SolvePositionConstraints(solverData)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// Exit early if the position errors are small.
			island.positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies
	for i, body := range island.bodies {
		body.sweep.C = island.positions[i].C
		body.sweep.A = island.positions[i].A
		body.linearVelocity = island.velocities[i].V
		body.angularVelocity = island.velocities[i].W
		body.SynchronizeTransform()
	}

	profile.SolvePosition += timer.GetMilliseconds()
}

func (island *Island) report(solver *ContactSolver, contacts []*Contact) {
	if island.listener == nil {
		return
	}

	for i, c := range contacts {
		impulse := solver.GetImpulse(i)
		island.listener.PostSolve(c, &impulse)
	}
}

// UpdateSleep advances the sleep timers of the island bodies and puts the
// whole island to sleep once every body has been still long enough.
func (island *Island) UpdateSleep(h float64, settings *Settings) {
	minSleepTime := MaxFloat

	linTolSqr := settings.LinearSleepTolerance * settings.LinearSleepTolerance
	angTolSqr := settings.AngularSleepTolerance * settings.AngularSleepTolerance

	for _, b := range island.bodies {
		if b.bodyType == BodyType.E_staticBody {
			continue
		}

		if (b.flags&bodyFlags.E_autoSleepFlag) == 0 ||
			b.angularVelocity*b.angularVelocity > angTolSqr ||
			Vec2Dot(b.linearVelocity, b.linearVelocity) > linTolSqr {
			b.sleepTime = 0.0
			minSleepTime = 0.0
		} else {
			b.sleepTime += h
			minSleepTime = math.Min(minSleepTime, b.sleepTime)
		}
	}

	if minSleepTime >= settings.TimeToSleep && island.positionSolved {
		for _, b := range island.bodies {
			b.SetAwake(false)
		}
	}
}
