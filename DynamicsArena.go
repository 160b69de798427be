package dyn4j

/// Stable index of a body inside its world.
type BodyID int

/// Stable index of a fixture inside its world.
type FixtureID int

const (
	NullBodyID    BodyID    = -1
	NullFixtureID FixtureID = -1
)

// arena owns every body and fixture of a world. Slots of destroyed objects
// are nil and reused in LIFO order, so ids stay stable for the lifetime of
// the object they name and iteration in index order is deterministic.
type arena struct {
	bodies       []*Body
	freeBodies   []BodyID
	bodyCount    int
	fixtures     []*Fixture
	freeFixtures []FixtureID
}

func (a *arena) addBody(body *Body) BodyID {
	var id BodyID
	if n := len(a.freeBodies); n > 0 {
		id = a.freeBodies[n-1]
		a.freeBodies = a.freeBodies[:n-1]
		a.bodies[id] = body
	} else {
		id = BodyID(len(a.bodies))
		a.bodies = append(a.bodies, body)
	}
	body.id = id
	a.bodyCount++
	return id
}

func (a *arena) removeBody(id BodyID) {
	Assert(a.bodies[id] != nil)
	a.bodies[id] = nil
	a.freeBodies = append(a.freeBodies, id)
	a.bodyCount--
}

func (a *arena) body(id BodyID) *Body {
	if id < 0 || int(id) >= len(a.bodies) {
		return nil
	}
	return a.bodies[id]
}

func (a *arena) addFixture(fixture *Fixture) FixtureID {
	var id FixtureID
	if n := len(a.freeFixtures); n > 0 {
		id = a.freeFixtures[n-1]
		a.freeFixtures = a.freeFixtures[:n-1]
		a.fixtures[id] = fixture
	} else {
		id = FixtureID(len(a.fixtures))
		a.fixtures = append(a.fixtures, fixture)
	}
	fixture.id = id
	return id
}

func (a *arena) removeFixture(id FixtureID) {
	Assert(a.fixtures[id] != nil)
	a.fixtures[id] = nil
	a.freeFixtures = append(a.freeFixtures, id)
}

func (a *arena) fixture(id FixtureID) *Fixture {
	if id < 0 || int(id) >= len(a.fixtures) {
		return nil
	}
	return a.fixtures[id]
}
