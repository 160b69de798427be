package dyn4j

/// A contact edge is used to connect bodies and contacts together
/// in a contact graph where each body is a node and each contact
/// is an edge. Each contact has two contact nodes, one for each
/// attached body.
type ContactEdge struct {
	Other   BodyID   ///< provides quick access to the other body attached.
	Contact *Contact ///< the contact
}

var contactFlags = struct {
	// Used when crawling contact graph when forming islands.
	E_islandFlag uint32

	// Set when the shapes are touching.
	E_touchingFlag uint32

	// This contact can be disabled (by user)
	E_enabledFlag uint32

	// This contact needs filtering because a fixture filter was changed.
	E_filterFlag uint32
}{
	E_islandFlag:   0x0001,
	E_touchingFlag: 0x0002,
	E_enabledFlag:  0x0004,
	E_filterFlag:   0x0008,
}

/// The class manages contact between two shapes. A contact exists for each overlapping
/// AABB in the broad-phase (except if filtered). Therefore a contact object may exist
/// that has no contact points.
type Contact struct {
	flags uint32

	// Nodes for connecting bodies.
	nodeA *ContactEdge
	nodeB *ContactEdge

	fixtureA FixtureID
	fixtureB FixtureID

	manifold    Manifold
	oldManifold Manifold

	friction     float64
	restitution  float64
	tangentSpeed float64

	world *World
}

func newContact(world *World, fA *Fixture, fB *Fixture) *Contact {
	contact := &Contact{
		flags:    contactFlags.E_enabledFlag,
		fixtureA: fA.id,
		fixtureB: fB.id,
		world:    world,
	}
	contact.manifold.ReferenceIndex = -1
	contact.nodeA = &ContactEdge{Contact: contact, Other: fB.body}
	contact.nodeB = &ContactEdge{Contact: contact, Other: fA.body}
	contact.friction = MixFriction(fA.friction, fB.friction)
	contact.restitution = MixRestitution(fA.restitution, fB.restitution)
	return contact
}

/// Get the contact manifold. Do not modify the manifold unless you understand the
/// internals.
func (contact *Contact) GetManifold() *Manifold {
	return &contact.manifold
}

/// Get the world manifold.
func (contact *Contact) GetWorldManifold() WorldManifold {
	var worldManifold WorldManifold
	fA := contact.GetFixtureAPtr()
	fB := contact.GetFixtureBPtr()
	worldManifold.Initialize(
		&contact.manifold,
		fA.GetBody().GetTransform(), fA.shape.GetRadius(),
		fB.GetBody().GetTransform(), fB.shape.GetRadius(),
	)
	return worldManifold
}

func (contact *Contact) GetFixtureA() FixtureID {
	return contact.fixtureA
}

func (contact *Contact) GetFixtureB() FixtureID {
	return contact.fixtureB
}

func (contact *Contact) GetFixtureAPtr() *Fixture {
	return contact.world.arena.fixture(contact.fixtureA)
}

func (contact *Contact) GetFixtureBPtr() *Fixture {
	return contact.world.arena.fixture(contact.fixtureB)
}

/// Is this contact touching?
func (contact *Contact) IsTouching() bool {
	return (contact.flags & contactFlags.E_touchingFlag) == contactFlags.E_touchingFlag
}

/// Enable/disable this contact. This can be used inside the pre-solve
/// contact listener. The contact is only disabled for the current
/// time step (or sub-step in continuous collisions).
func (contact *Contact) SetEnabled(flag bool) {
	if flag {
		contact.flags |= contactFlags.E_enabledFlag
	} else {
		contact.flags &= ^contactFlags.E_enabledFlag
	}
}

func (contact *Contact) IsEnabled() bool {
	return (contact.flags & contactFlags.E_enabledFlag) == contactFlags.E_enabledFlag
}

/// Is either fixture a sensor?
func (contact *Contact) IsSensor() bool {
	return contact.GetFixtureAPtr().isSensor || contact.GetFixtureBPtr().isSensor
}

/// Flag this contact for filtering. Filtering will occur the next time step.
func (contact *Contact) FlagForFiltering() {
	contact.flags |= contactFlags.E_filterFlag
}

/// Override the default friction mixture. You can call this in PreSolve.
/// This value persists until set or reset.
func (contact *Contact) SetFriction(friction float64) {
	contact.friction = friction
}

func (contact *Contact) GetFriction() float64 {
	return contact.friction
}

/// Reset the friction mixture to the default value.
func (contact *Contact) ResetFriction() {
	contact.friction = MixFriction(contact.GetFixtureAPtr().friction, contact.GetFixtureBPtr().friction)
}

/// Override the default restitution mixture. You can call this in PreSolve.
/// The value persists until you set or reset.
func (contact *Contact) SetRestitution(restitution float64) {
	contact.restitution = restitution
}

func (contact *Contact) GetRestitution() float64 {
	return contact.restitution
}

/// Reset the restitution to the default value.
func (contact *Contact) ResetRestitution() {
	contact.restitution = MixRestitution(contact.GetFixtureAPtr().restitution, contact.GetFixtureBPtr().restitution)
}

/// Set the desired tangent speed for a conveyor belt behavior. In meters per second.
func (contact *Contact) SetTangentSpeed(speed float64) {
	contact.tangentSpeed = speed
}

func (contact *Contact) GetTangentSpeed() float64 {
	return contact.tangentSpeed
}

/// Evaluate this contact with your own manifold and transforms.
func (contact *Contact) Evaluate(xfA Transform, xfB Transform) Manifold {
	fA := contact.GetFixtureAPtr()
	fB := contact.GetFixtureBPtr()
	det := Detect(fA.shape, xfA, fB.shape, xfB)
	return BuildManifold(det, fA.shape, xfA, fB.shape, xfB)
}

// Update the contact manifold and touching status, queueing one event per
// contact point that appears, persists or disappears.
// Note: do not assume the fixture AABBs are overlapping or are valid.
func (contact *Contact) Update(events *contactEventQueue) {
	contact.oldManifold = contact.manifold

	// Re-enable this contact.
	contact.flags |= contactFlags.E_enabledFlag

	wasTouching := contact.IsTouching()

	bodyA := contact.GetFixtureAPtr().GetBody()
	bodyB := contact.GetFixtureBPtr().GetBody()

	contact.manifold = contact.Evaluate(bodyA.GetTransform(), bodyB.GetTransform())
	touching := contact.manifold.PointCount > 0

	// Match old contact ids to new contact ids and copy the
	// stored impulses to warm start the solver.
	contact.manifold.WarmStartFrom(&contact.oldManifold)

	sensor := contact.IsSensor()
	if !sensor && touching != wasTouching {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	if touching {
		contact.flags |= contactFlags.E_touchingFlag
	} else {
		contact.flags &= ^contactFlags.E_touchingFlag
	}

	if events != nil {
		events.pushTransitions(contact, &contact.oldManifold, &contact.manifold)
	}
}
