package dyn4j

/// Joints and fixtures are destroyed when their associated
/// body is destroyed. Implement this listener so that you
/// may nullify references to these joints and shapes.
type DestructionListener interface {
	/// Called when any fixture is about to be destroyed due
	/// to the destruction of its parent body.
	SayGoodbyeToFixture(fixture *Fixture)

	/// Called when any joint is about to be destroyed due
	/// to the destruction of one of its attached bodies.
	SayGoodbyeToJoint(joint Joint)
}

/// Implement this interface to provide collision filtering. In other words, you can implement
/// this interface if you want finer control over contact creation.
type ContactFilter interface {
	ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool
}

/// The default filter uses the fixture filter data.
type DefaultContactFilter struct{}

// Return true if contact calculations should be performed between these two shapes.
// If you implement your own collision filter you may want to build from this implementation.
func (cf DefaultContactFilter) ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool {
	filterA := fixtureA.GetFilterData()
	filterB := fixtureB.GetFilterData()

	if filterA.GroupIndex == filterB.GroupIndex && filterA.GroupIndex != 0 {
		return filterA.GroupIndex > 0
	}

	return (filterA.MaskBits&filterB.CategoryBits) != 0 && (filterA.CategoryBits&filterB.MaskBits) != 0
}

/// Contact impulses for reporting. Impulses are used instead of forces because
/// sub-step forces may approach infinity for rigid body collisions. These
/// match up one-to-one with the contact points in Manifold.
type ContactImpulse struct {
	NormalImpulses  [MaxManifoldPoints]float64
	TangentImpulses [MaxManifoldPoints]float64
	Count           int
}

/// A snapshot of one manifold point, passed to the contact events.
type ContactPoint struct {
	FixtureA FixtureID
	FixtureB FixtureID
	ID       ContactID
	Point    Vec2
	Normal   Vec2
	Depth    float64
	Sensor   bool
}

/// Implement this interface to get contact information. You can use these results for
/// things like sounds and game logic. Point events are reported once per step,
/// after the time of impact phase, in the order the contacts were updated.
/// @warning You cannot create or destroy bodies, fixtures or joints inside
/// these callbacks; destruction is deferred until the step finishes.
type ContactListener interface {
	/// Called when a contact point with a new id appears.
	BeginContact(contact *Contact, point ContactPoint)

	/// Called when a contact point keeps its id across a step.
	PersistContact(contact *Contact, point ContactPoint)

	/// Called when a contact point id disappears, or the contact is destroyed.
	EndContact(contact *Contact, point ContactPoint)

	/// This is called after the contact is updated and before the solver sees
	/// it. Calling contact.SetEnabled(false) keeps it out of this step's solve.
	/// A copy of the old manifold is provided so that you can detect changes.
	/// Note: this is called only for awake bodies.
	/// Note: this is not called for sensors.
	PreSolve(contact *Contact, oldManifold *Manifold)

	/// This lets you inspect a contact after the velocity phase. This is useful
	/// for inspecting impulses.
	/// Note: this is only called for contacts that are touching, solid, and awake.
	PostSolve(contact *Contact, impulse *ContactImpulse)
}

/// Called at both ends of every World.Step.
type StepListener interface {
	BeginStep(world *World, step TimeStep)
	EndStep(world *World, step TimeStep)
}

/// Called for each fixture found in the query AABB.
/// @return false to terminate the query.
type QueryCallback func(fixture *Fixture) bool

var contactEventKind = struct {
	E_begin   uint8
	E_persist uint8
	E_end     uint8
}{
	E_begin:   0,
	E_persist: 1,
	E_end:     2,
}

type contactEvent struct {
	kind    uint8
	contact *Contact
	point   ContactPoint
}

// contactEventQueue collects point events during a step so that listeners
// run once the bodies have reached their final positions.
type contactEventQueue struct {
	events []contactEvent
}

func makeContactPoint(contact *Contact, manifold *Manifold, i int) ContactPoint {
	mp := &manifold.Points[i]
	return ContactPoint{
		FixtureA: contact.fixtureA,
		FixtureB: contact.fixtureB,
		ID:       mp.ID,
		Point:    mp.Point,
		Normal:   manifold.Normal,
		Depth:    mp.Depth,
		Sensor:   contact.IsSensor(),
	}
}

func (q *contactEventQueue) pushTransitions(contact *Contact, oldManifold *Manifold, newManifold *Manifold) {
	var state1, state2 [MaxManifoldPoints]uint8
	GetPointStates(&state1, &state2, oldManifold, newManifold)

	for i := 0; i < oldManifold.PointCount; i++ {
		if state1[i] == PointState.RemoveState {
			q.events = append(q.events, contactEvent{contactEventKind.E_end, contact, makeContactPoint(contact, oldManifold, i)})
		}
	}

	for i := 0; i < newManifold.PointCount; i++ {
		switch state2[i] {
		case PointState.AddState:
			q.events = append(q.events, contactEvent{contactEventKind.E_begin, contact, makeContactPoint(contact, newManifold, i)})
		case PointState.PersistState:
			q.events = append(q.events, contactEvent{contactEventKind.E_persist, contact, makeContactPoint(contact, newManifold, i)})
		}
	}
}

func (q *contactEventQueue) pushEnd(contact *Contact) {
	for i := 0; i < contact.manifold.PointCount; i++ {
		q.events = append(q.events, contactEvent{contactEventKind.E_end, contact, makeContactPoint(contact, &contact.manifold, i)})
	}
}

func (q *contactEventQueue) dispatch(listener ContactListener) {
	events := q.events
	q.events = nil
	if listener == nil {
		return
	}

	for _, e := range events {
		switch e.kind {
		case contactEventKind.E_begin:
			listener.BeginContact(e.contact, e.point)
		case contactEventKind.E_persist:
			listener.PersistContact(e.contact, e.point)
		case contactEventKind.E_end:
			listener.EndContact(e.contact, e.point)
		}
	}
}
