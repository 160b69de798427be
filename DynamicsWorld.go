package dyn4j

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/satishbabusee/dyn4j"

var worldFlags = struct {
	E_newFixture  uint32
	E_locked      uint32
	E_clearForces uint32
}{
	E_newFixture:  0x0001,
	E_locked:      0x0002,
	E_clearForces: 0x0004,
}

/// The world class manages all physics entities, dynamic simulation,
/// and asynchronous queries. Bodies and fixtures live in an arena owned by
/// the world and are addressed by stable ids.
type World struct {
	flags uint32

	arena          arena
	contactManager ContactManager
	joints         []Joint

	gravity  Vec2
	settings Settings

	destructionListener DestructionListener
	stepListeners       []StepListener

	logger *log.Logger
	tracer trace.Tracer

	// This is used to compute the time step ratio to
	// support a variable time step.
	invDt0 float64

	// Destruction requested from inside a step.
	deferredBodies []*Body
	deferredJoints []Joint

	// Islands solved by the current step, kept for the sleep pass.
	islands []*Island

	profile Profile
}

/// Construct a world object.
/// @param gravity the world gravity vector.
/// @param settings tolerances and iteration counts, see DefaultSettings.
func NewWorld(gravity Vec2, settings Settings) (*World, error) {
	if !gravity.IsValid() {
		return nil, invalidArgument("gravity", "gravity must be finite")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	world := &World{
		flags:    worldFlags.E_clearForces,
		gravity:  gravity,
		settings: settings,
		tracer:   otel.Tracer(tracerName),
	}
	world.contactManager = MakeContactManager(world)

	return world, nil
}

func (world *World) IsLocked() bool {
	return (world.flags & worldFlags.E_locked) == worldFlags.E_locked
}

/// Register a destruction listener. The listener is owned by you and must
/// remain in scope.
func (world *World) SetDestructionListener(listener DestructionListener) {
	world.destructionListener = listener
}

/// Register a contact filter to provide specific control over collision.
/// Otherwise the default filter is used. A nil filter lets every pair collide.
func (world *World) SetContactFilter(filter ContactFilter) {
	world.contactManager.contactFilter = filter
}

/// Register a contact event listener.
func (world *World) SetContactListener(listener ContactListener) {
	world.contactManager.contactListener = listener
}

func (world *World) AddStepListener(listener StepListener) {
	world.stepListeners = append(world.stepListeners, listener)
}

/// Dump output and time of impact diagnostics go to this logger. Nil
/// silences them.
func (world *World) SetLogger(logger *log.Logger) {
	world.logger = logger
}

func (world *World) GetLogger() *log.Logger {
	return world.logger
}

/// Replace the world settings. Fails while the world is stepping.
func (world *World) SetSettings(settings Settings) error {
	if world.IsLocked() {
		return worldLocked("SetSettings")
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	if world.settings.AllowSleep && !settings.AllowSleep {
		world.wakeAll()
	}
	world.settings = settings
	return nil
}

func (world *World) GetSettings() Settings {
	return world.settings
}

/// Create a rigid body given a definition.
/// Fails with a WORLD_LOCKED error when called during a step.
func (world *World) CreateBody(def BodyDef) (*Body, error) {
	if world.IsLocked() {
		return nil, worldLocked("CreateBody")
	}
	if err := validateBodyDef(&def); err != nil {
		return nil, err
	}

	b := newBody(&def, world)
	world.arena.addBody(b)

	return b, nil
}

/// Destroy a rigid body. This automatically deletes all associated fixtures,
/// contacts and joints. When called during a step the destruction happens
/// once the step completes.
func (world *World) DestroyBody(b *Body) error {
	if b == nil {
		return missingArgument("body")
	}
	if b.world != world || world.arena.body(b.id) != b {
		return invalidArgument("body", "body does not belong to this world")
	}

	if world.IsLocked() {
		world.deferredBodies = append(world.deferredBodies, b)
		return nil
	}

	world.destroyBody(b)
	world.contactManager.events.dispatch(world.contactManager.contactListener)
	return nil
}

func (world *World) destroyBody(b *Body) {
	// Delete the attached joints.
	jointEdges := append([]*JointEdge(nil), b.jointEdges...)
	for _, je := range jointEdges {
		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToJoint(je.Joint)
		}
		world.destroyJoint(je.Joint)
	}
	b.jointEdges = nil

	// Delete the attached contacts.
	contactEdges := append([]*ContactEdge(nil), b.contactEdges...)
	for _, ce := range contactEdges {
		world.contactManager.Destroy(ce.Contact)
	}
	b.contactEdges = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	for _, f := range b.GetFixtures() {
		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToFixture(f)
		}
		b.destroyFixture(f)
	}

	world.arena.removeBody(b.id)
	b.world = nil
}

// Connect a constructed joint to the world and its bodies.
func (world *World) addJoint(j Joint) {
	base := j.base()
	base.index = len(world.joints)
	world.joints = append(world.joints, j)

	bodyA := world.arena.body(base.bodyA)
	bodyB := world.arena.body(base.bodyB)

	if bodyA != nil {
		base.edgeA = &JointEdge{Other: base.bodyB, Joint: j}
		bodyA.jointEdges = append(bodyA.jointEdges, base.edgeA)
	}

	if bodyB != nil {
		base.edgeB = &JointEdge{Other: base.bodyA, Joint: j}
		bodyB.jointEdges = append(bodyB.jointEdges, base.edgeB)
	}

	// If the joint prevents collisions, then flag any contacts for filtering.
	if !base.collideConnected && bodyA != nil && bodyB != nil {
		world.flagContactsBetween(bodyA, bodyB)
	}

	// Note: creating a joint doesn't wake the bodies.
}

func (world *World) flagContactsBetween(bodyA *Body, bodyB *Body) {
	for _, edge := range bodyB.contactEdges {
		if edge.Other == bodyA.id {
			// Flag the contact for filtering at the next time step (where either
			// body is awake).
			edge.Contact.FlagForFiltering()
		}
	}
}

/// Destroy a joint. This may cause the connected bodies to begin colliding.
/// When called during a step the destruction happens once the step completes.
func (world *World) DestroyJoint(j Joint) error {
	if j == nil {
		return missingArgument("joint")
	}
	base := j.base()
	if base.world != world || base.index < 0 || base.index >= len(world.joints) || world.joints[base.index] != j {
		return invalidArgument("joint", "joint does not belong to this world")
	}

	if world.IsLocked() {
		world.deferredJoints = append(world.deferredJoints, j)
		return nil
	}

	world.destroyJoint(j)
	return nil
}

func (world *World) destroyJoint(j Joint) {
	base := j.base()

	// Remove from the world list and keep indices dense.
	world.joints = append(world.joints[:base.index], world.joints[base.index+1:]...)
	for i := base.index; i < len(world.joints); i++ {
		world.joints[i].base().index = i
	}
	base.index = -1

	// Disconnect from island graph.
	bodyA := world.arena.body(base.bodyA)
	bodyB := world.arena.body(base.bodyB)

	// Wake up connected bodies.
	if bodyA != nil {
		bodyA.SetAwake(true)
		bodyA.removeJointEdge(base.edgeA)
	}
	if bodyB != nil {
		bodyB.SetAwake(true)
		bodyB.removeJointEdge(base.edgeB)
	}
	base.edgeA = nil
	base.edgeB = nil

	// If the joint prevents collisions, then flag any contacts for filtering.
	if !base.collideConnected && bodyA != nil && bodyB != nil {
		world.flagContactsBetween(bodyA, bodyB)
	}
}

func (world *World) applyDeferred() {
	joints := world.deferredJoints
	world.deferredJoints = nil
	for _, j := range joints {
		if j.base().index >= 0 {
			world.destroyJoint(j)
		}
	}

	bodies := world.deferredBodies
	world.deferredBodies = nil
	for _, b := range bodies {
		// The same body may be queued twice.
		if b.world == world && world.arena.body(b.id) == b {
			world.destroyBody(b)
		}
	}

	world.contactManager.events.dispatch(world.contactManager.contactListener)
}

/// Bodies in arena index order.
func (world *World) GetBodies() []*Body {
	bodies := make([]*Body, 0, world.arena.bodyCount)
	for _, b := range world.arena.bodies {
		if b != nil {
			bodies = append(bodies, b)
		}
	}
	return bodies
}

func (world *World) GetBody(id BodyID) *Body {
	return world.arena.body(id)
}

func (world *World) GetFixture(id FixtureID) *Fixture {
	return world.arena.fixture(id)
}

func (world *World) GetJoints() []Joint {
	return world.joints
}

func (world *World) GetContacts() []*Contact {
	return world.contactManager.GetContacts()
}

func (world *World) GetBodyCount() int {
	return world.arena.bodyCount
}

func (world *World) GetJointCount() int {
	return len(world.joints)
}

func (world *World) GetContactCount() int {
	return world.contactManager.GetContactCount()
}

func (world *World) GetProxyCount() int {
	return world.contactManager.broadPhase.GetProxyCount()
}

func (world *World) SetGravity(gravity Vec2) {
	world.gravity = gravity
}

func (world *World) GetGravity() Vec2 {
	return world.gravity
}

/// Enable/disable sleep.
func (world *World) SetAllowSleeping(flag bool) {
	if flag == world.settings.AllowSleep {
		return
	}

	world.settings.AllowSleep = flag
	if !flag {
		world.wakeAll()
	}
}

func (world *World) GetAllowSleeping() bool {
	return world.settings.AllowSleep
}

func (world *World) wakeAll() {
	for _, b := range world.arena.bodies {
		if b != nil {
			b.SetAwake(true)
		}
	}
}

/// Set flag to control automatic clearing of forces after each time step.
func (world *World) SetAutoClearForces(flag bool) {
	if flag {
		world.flags |= worldFlags.E_clearForces
	} else {
		world.flags &= ^worldFlags.E_clearForces
	}
}

/// Get the flag that controls automatic clearing of forces after each time step.
func (world *World) GetAutoClearForces() bool {
	return (world.flags & worldFlags.E_clearForces) == worldFlags.E_clearForces
}

/// Manually clear the force buffer on all bodies. By default, forces are cleared automatically
/// after each call to Step.
func (world *World) ClearForces() {
	for _, body := range world.arena.bodies {
		if body == nil {
			continue
		}
		body.force.SetZero()
		body.torque = 0.0
	}
}

/// Get the current profile.
func (world *World) GetProfile() Profile {
	return world.profile
}

/// Take a time step. This performs collision detection, integration,
/// and constraint solution.
func (world *World) Step(dt float64) error {
	return world.StepContext(context.Background(), dt)
}

/// StepContext is Step with a caller supplied context for tracing.
func (world *World) StepContext(ctx context.Context, dt float64) error {
	_, span := world.tracer.Start(ctx, "dyn4j.World.Step",
		trace.WithAttributes(attribute.Float64("dyn4j.dt", dt)),
	)
	defer span.End()

	if world.IsLocked() {
		err := reentrantStep()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !IsValid(dt) || dt < 0.0 {
		err := invalidArgument("dt", "time step must be finite and not negative")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	stepTimer := MakeTimer()

	world.flags |= worldFlags.E_locked

	step := TimeStep{
		Dt:                 dt,
		DtRatio:            world.invDt0 * dt,
		VelocityIterations: world.settings.VelocityIterations,
		PositionIterations: world.settings.PositionIterations,
		WarmStarting:       world.settings.WarmStarting,
		Settings:           world.settings,
	}
	if dt > 0.0 {
		step.Inv_dt = 1.0 / dt
	}

	for _, listener := range world.stepListeners {
		listener.BeginStep(world, step)
	}

	// If new fixtures were added, we need to find the new contacts.
	if (world.flags & worldFlags.E_newFixture) != 0 {
		world.contactManager.FindNewContacts()
		world.flags &= ^worldFlags.E_newFixture
	}

	// Update contacts. This is where some contacts are destroyed.
	{
		timer := MakeTimer()
		world.contactManager.Collide()
		world.profile.Collide = timer.GetMilliseconds()
	}

	// Integrate velocities, solve velocity constraints, and integrate positions.
	world.islands = world.islands[:0]
	if step.Dt > 0.0 {
		timer := MakeTimer()
		world.solve(step)
		world.profile.Solve = timer.GetMilliseconds()
	}

	// Handle TOI events.
	impacts := 0
	if step.Settings.ContinuousCollision && step.Dt > 0.0 {
		timer := MakeTimer()
		impacts = world.solveTOI(step)
		if impacts > 0 {
			world.contactManager.FindNewContacts()
		}
		world.profile.SolveTOI = timer.GetMilliseconds()
	}

	// Bodies are at their final positions; report contact point events.
	world.contactManager.events.dispatch(world.contactManager.contactListener)

	if step.Settings.AllowSleep {
		for _, island := range world.islands {
			island.UpdateSleep(step.Dt, &step.Settings)
		}
	}

	if step.Dt > 0.0 {
		world.invDt0 = step.Inv_dt
	}

	if (world.flags & worldFlags.E_clearForces) != 0 {
		world.ClearForces()
	}

	for _, listener := range world.stepListeners {
		listener.EndStep(world, step)
	}

	world.flags &= ^worldFlags.E_locked

	world.applyDeferred()

	world.profile.Step = stepTimer.GetMilliseconds()

	span.SetAttributes(
		attribute.Int("dyn4j.bodies", world.arena.bodyCount),
		attribute.Int("dyn4j.contacts", len(world.contactManager.contacts)),
		attribute.Int("dyn4j.joints", len(world.joints)),
		attribute.Int("dyn4j.islands", len(world.islands)),
		attribute.Int("dyn4j.velocity_iterations", step.VelocityIterations),
		attribute.Int("dyn4j.position_iterations", step.PositionIterations),
		attribute.Int("dyn4j.toi_impacts", impacts),
		attribute.Float64("dyn4j.profile.step_ms", world.profile.Step),
	)

	if world.logger != nil {
		p := world.profile
		world.logger.Printf("dyn4j: step %.3fms collide %.3fms solve %.3fms (init %.3f vel %.3f pos %.3f) broadphase %.3fms toi %.3fms impacts %d",
			p.Step, p.Collide, p.Solve, p.SolveInit, p.SolveVelocity, p.SolvePosition, p.Broadphase, p.SolveTOI, impacts)
	}

	return nil
}

// Find islands, integrate and solve constraints, solve position constraints
func (world *World) solve(step TimeStep) {
	world.profile.SolveInit = 0.0
	world.profile.SolveVelocity = 0.0
	world.profile.SolvePosition = 0.0

	// Clear all the island flags.
	for _, b := range world.arena.bodies {
		if b != nil {
			b.flags &= ^bodyFlags.E_islandFlag
		}
	}
	for _, c := range world.contactManager.contacts {
		c.flags &= ^contactFlags.E_islandFlag
	}
	for _, j := range world.joints {
		j.base().islandFlag = false
	}

	// Build and simulate all awake islands.
	stack := make([]*Body, 0, world.arena.bodyCount)

	for _, seed := range world.arena.bodies {
		if seed == nil || (seed.flags&bodyFlags.E_islandFlag) != 0 {
			continue
		}

		if !seed.IsAwake() {
			continue
		}

		// The seed can be dynamic or kinematic.
		if seed.bodyType == BodyType.E_staticBody {
			continue
		}

		island := MakeIsland(
			world.arena.bodyCount,
			len(world.contactManager.contacts),
			len(world.joints),
			world.contactManager.contactListener,
		)

		stack = append(stack[:0], seed)
		seed.flags |= bodyFlags.E_islandFlag

		// Perform a depth first search (DFS) on the constraint graph.
		for len(stack) > 0 {
			// Grab the next body off the stack and add it to the island.
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			island.AddBody(b)

			// Make sure the body is awake (without resetting sleep timer).
			b.flags |= bodyFlags.E_awakeFlag

			// To keep islands as small as possible, we don't
			// propagate islands across static bodies.
			if b.bodyType == BodyType.E_staticBody {
				continue
			}

			// Search all contacts connected to this body.
			for _, ce := range b.contactEdges {
				contact := ce.Contact

				// Has this contact already been added to an island?
				if (contact.flags & contactFlags.E_islandFlag) != 0 {
					continue
				}

				// Is this contact solid and touching?
				if !contact.IsEnabled() || !contact.IsTouching() {
					continue
				}

				// Skip sensors.
				if contact.IsSensor() {
					continue
				}

				island.AddContact(contact)
				contact.flags |= contactFlags.E_islandFlag

				other := world.arena.body(ce.Other)

				// Was the other body already added to this island?
				if (other.flags & bodyFlags.E_islandFlag) != 0 {
					continue
				}

				stack = append(stack, other)
				other.flags |= bodyFlags.E_islandFlag
			}

			// Search all joints connect to this body.
			for _, je := range b.jointEdges {
				base := je.Joint.base()
				if base.islandFlag {
					continue
				}

				island.AddJoint(je.Joint)
				base.islandFlag = true

				// Single body joints have no other side.
				other := world.arena.body(je.Other)
				if other == nil || (other.flags&bodyFlags.E_islandFlag) != 0 {
					continue
				}

				stack = append(stack, other)
				other.flags |= bodyFlags.E_islandFlag
			}
		}

		island.Solve(&world.profile, step, world.gravity)
		world.islands = append(world.islands, &island)

		// Post solve cleanup.
		for _, b := range island.bodies {
			// Allow static bodies to participate in other islands.
			if b.bodyType == BodyType.E_staticBody {
				b.flags &= ^bodyFlags.E_islandFlag
			}
		}
	}

	{
		timer := MakeTimer()

		// Synchronize fixtures, check for out of range bodies.
		for _, b := range world.arena.bodies {
			// If a body was not in an island then it did not move.
			if b == nil || (b.flags&bodyFlags.E_islandFlag) == 0 {
				continue
			}

			if b.bodyType == BodyType.E_staticBody {
				continue
			}

			// Update fixtures (for broad-phase).
			b.SynchronizeFixtures()
		}

		// Look for new contacts.
		world.contactManager.FindNewContacts()
		world.profile.Broadphase = timer.GetMilliseconds()
	}
}

/// Query the world for all fixtures that potentially overlap the
/// provided AABB.
/// @param callback a user implemented callback function.
/// @param aabb the query box.
func (world *World) QueryAABB(callback QueryCallback, aabb AABB) {
	broadPhase := &world.contactManager.broadPhase
	broadPhase.Query(func(proxyID int) bool {
		fixture := world.arena.fixture(broadPhase.GetFixture(proxyID))
		if fixture == nil {
			return true
		}
		return callback(fixture)
	}, aabb)
}

/// Shift the world origin. Useful for large worlds.
/// The body shift formula is: position -= newOrigin
/// @param newOrigin the new origin with respect to the old origin
func (world *World) ShiftOrigin(newOrigin Vec2) error {
	if world.IsLocked() {
		return worldLocked("ShiftOrigin")
	}
	if !newOrigin.IsValid() {
		return invalidArgument("newOrigin", "origin must be finite")
	}

	for _, b := range world.arena.bodies {
		if b == nil {
			continue
		}
		b.xf.P.SubInPlace(newOrigin)
		b.sweep.C0.SubInPlace(newOrigin)
		b.sweep.C.SubInPlace(newOrigin)
	}

	for _, j := range world.joints {
		j.ShiftOrigin(newOrigin)
	}

	world.contactManager.broadPhase.ShiftOrigin(newOrigin)
	return nil
}

/// Dump the world into the logger as Go source that rebuilds it.
func (world *World) Dump() {
	if world.logger == nil || world.IsLocked() {
		return
	}

	world.logger.Printf("world, _ := NewWorld(MakeVec2(%.15e, %.15e), DefaultSettings())", world.gravity.X, world.gravity.Y)
	world.logger.Printf("bodies := make([]*Body, %d)", len(world.arena.bodies))
	world.logger.Printf("joints := make([]Joint, %d)", len(world.joints))

	for _, b := range world.arena.bodies {
		if b != nil {
			b.Dump()
		}
	}

	for _, j := range world.joints {
		world.logger.Printf("{")
		j.Dump()
		world.logger.Printf("}")
	}
}
