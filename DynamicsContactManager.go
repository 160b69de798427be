package dyn4j

// Delegate of World.
type ContactManager struct {
	broadPhase      BroadPhase
	contacts        []*Contact
	contactFilter   ContactFilter
	contactListener ContactListener
	events          contactEventQueue
	world           *World
}

func MakeContactManager(world *World) ContactManager {
	return ContactManager{
		broadPhase:    MakeBroadPhase(),
		contactFilter: DefaultContactFilter{},
		world:         world,
	}
}

/// Contacts in creation order.
func (mgr *ContactManager) GetContacts() []*Contact {
	return mgr.contacts
}

func (mgr *ContactManager) GetContactCount() int {
	return len(mgr.contacts)
}

func (mgr *ContactManager) GetBroadPhase() *BroadPhase {
	return &mgr.broadPhase
}

// Destroy unlinks a contact from the world and from both bodies. A touching
// contact reports an end event for each of its points.
func (mgr *ContactManager) Destroy(c *Contact) {
	fixtureA := c.GetFixtureAPtr()
	fixtureB := c.GetFixtureBPtr()
	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	if c.IsTouching() {
		mgr.events.pushEnd(c)
	}

	// Remove from the world.
	for i, other := range mgr.contacts {
		if other == c {
			mgr.contacts = append(mgr.contacts[:i], mgr.contacts[i+1:]...)
			break
		}
	}

	// Remove from body 1
	bodyA.removeContactEdge(c.nodeA)

	// Remove from body 2
	bodyB.removeContactEdge(c.nodeB)

	if c.IsTouching() && !c.IsSensor() {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	c.flags &= ^contactFlags.E_touchingFlag
}

// This is the top level collision call for the time step. Here
// all the narrow phase collision is processed for the world
// contact list.
func (mgr *ContactManager) Collide() {
	// Destroy may shrink the list while we walk it.
	contacts := append([]*Contact(nil), mgr.contacts...)

	for _, c := range contacts {
		fixtureA := c.GetFixtureAPtr()
		fixtureB := c.GetFixtureBPtr()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()

		// Is this contact flagged for filtering?
		if (c.flags & contactFlags.E_filterFlag) != 0x0000 {
			// Should these bodies collide?
			if !bodyB.ShouldCollide(bodyA) {
				mgr.Destroy(c)
				continue
			}

			// Check user filtering.
			if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
				mgr.Destroy(c)
				continue
			}

			// Clear the filtering flag.
			c.flags &= ^contactFlags.E_filterFlag
		}

		activeA := bodyA.IsAwake() && bodyA.bodyType != BodyType.E_staticBody
		activeB := bodyB.IsAwake() && bodyB.bodyType != BodyType.E_staticBody

		// At least one body must be awake and it must be dynamic or kinematic.
		if !activeA && !activeB {
			continue
		}

		overlap := mgr.broadPhase.TestOverlap(fixtureA.proxyID, fixtureB.proxyID)

		// Here we destroy contacts that cease to overlap in the broad-phase.
		if !overlap {
			mgr.Destroy(c)
			continue
		}

		// The contact persists.
		c.Update(&mgr.events)
	}
}

func (mgr *ContactManager) FindNewContacts() {
	mgr.broadPhase.UpdatePairs(mgr.AddPair)
}

// AddPair is the broad phase callback: it creates a contact for a new pair
// of overlapping proxies unless one already exists or filtering rejects it.
func (mgr *ContactManager) AddPair(idA FixtureID, idB FixtureID) {
	arena := &mgr.world.arena
	fixtureA := arena.fixture(idA)
	fixtureB := arena.fixture(idB)
	if fixtureA == nil || fixtureB == nil {
		return
	}

	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	// Are the fixtures on the same body?
	if bodyA == bodyB {
		return
	}

	// Does a contact already exist?
	for _, edge := range bodyB.contactEdges {
		if edge.Other != bodyA.id {
			continue
		}

		fA := edge.Contact.fixtureA
		fB := edge.Contact.fixtureB
		if (fA == idA && fB == idB) || (fA == idB && fB == idA) {
			// A contact already exists.
			return
		}
	}

	// Does a joint override collision? Is at least one body dynamic?
	if !bodyB.ShouldCollide(bodyA) {
		return
	}

	// Check user filtering.
	if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
		return
	}

	c := newContact(mgr.world, fixtureA, fixtureB)

	// Insert into the world.
	mgr.contacts = append(mgr.contacts, c)

	// Connect to island graph.
	bodyA.contactEdges = append(bodyA.contactEdges, c.nodeA)
	bodyB.contactEdges = append(bodyB.contactEdges, c.nodeB)

	// Wake up the bodies
	if !fixtureA.isSensor && !fixtureB.isSensor {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}
}
