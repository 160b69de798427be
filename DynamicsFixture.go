package dyn4j

/// This holds contact filtering data.
type Filter struct {
	/// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// shape would accept for collision.
	MaskBits uint16

	/// Collision groups allow a certain group of objects to never collide (negative)
	/// or always collide (positive). Zero means no collision group. Non-zero group
	/// filtering always wins against the mask bits.
	GroupIndex int16
}

func MakeFilter() Filter {
	return Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

/// A fixture definition is used to create a fixture. You can reuse fixture
/// definitions safely.
type FixtureDef struct {
	/// The shape, this must be set. Shapes are immutable and may be shared.
	Shape Shape

	/// Use this to store application specific fixture data.
	UserData interface{}

	/// The friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	/// The density, usually in kg/m^2.
	Density float64

	/// A sensor shape collects contact information but never generates a collision
	/// response.
	IsSensor bool

	/// Contact filtering data.
	Filter Filter
}

/// The constructor sets the default fixture definition values.
func MakeFixtureDef() FixtureDef {
	return FixtureDef{
		Friction:    0.2,
		Restitution: 0.0,
		Density:     0.0,
		Filter:      MakeFilter(),
	}
}

/// A fixture is used to attach a shape to a body for collision detection. A fixture
/// inherits its transform from its parent. Fixtures hold additional non-geometric data
/// such as friction, collision filters, etc.
/// Fixtures are created via Body.CreateFixture.
type Fixture struct {
	id   FixtureID
	body BodyID

	shape       Shape
	density     float64
	friction    float64
	restitution float64
	filter      Filter
	isSensor    bool

	proxyID int
	aabb    AABB

	world    *World
	userData interface{}
}

func (fix *Fixture) GetID() FixtureID {
	return fix.id
}

func (fix *Fixture) GetType() uint8 {
	return fix.shape.GetType()
}

func (fix *Fixture) GetShape() Shape {
	return fix.shape
}

func (fix *Fixture) IsSensor() bool {
	return fix.isSensor
}

/// Set if this fixture is a sensor.
func (fix *Fixture) SetSensor(sensor bool) {
	if sensor != fix.isSensor {
		fix.GetBody().SetAwake(true)
		fix.isSensor = sensor
	}
}

func (fix *Fixture) GetFilterData() Filter {
	return fix.filter
}

/// Set the contact filtering data. This will not update contacts until the
/// next time step when either parent body is active and awake.
func (fix *Fixture) SetFilterData(filter Filter) {
	fix.filter = filter
	fix.Refilter()
}

/// Call this if you want to establish collision that was previously disabled
/// by ContactFilter.ShouldCollide.
func (fix *Fixture) Refilter() {
	body := fix.GetBody()
	if body == nil {
		return
	}

	// Flag associated contacts for filtering.
	for _, edge := range body.contactEdges {
		contact := edge.Contact
		if contact.GetFixtureA() == fix.id || contact.GetFixtureB() == fix.id {
			contact.FlagForFiltering()
		}
	}

	// Touch the proxy so that new pairs may be created
	if fix.proxyID != E_nullProxy {
		fix.world.contactManager.broadPhase.TouchProxy(fix.proxyID)
	}
}

/// The parent body of this fixture.
func (fix *Fixture) GetBody() *Body {
	if fix.world == nil {
		return nil
	}
	return fix.world.arena.body(fix.body)
}

func (fix *Fixture) GetBodyID() BodyID {
	return fix.body
}

func (fix *Fixture) GetUserData() interface{} {
	return fix.userData
}

func (fix *Fixture) SetUserData(data interface{}) {
	fix.userData = data
}

/// Set the density of this fixture. This will _not_ automatically adjust the mass
/// of the body. You must call Body.ResetMassData to update the body's mass.
func (fix *Fixture) SetDensity(density float64) error {
	if !IsValid(density) || density < 0.0 {
		return invalidArgument("density", "density must not be negative")
	}
	fix.density = density
	return nil
}

func (fix *Fixture) GetDensity() float64 {
	return fix.density
}

func (fix *Fixture) GetFriction() float64 {
	return fix.friction
}

/// Set the coefficient of friction. This will _not_ change the friction of
/// existing contacts.
func (fix *Fixture) SetFriction(friction float64) {
	fix.friction = friction
}

func (fix *Fixture) GetRestitution() float64 {
	return fix.restitution
}

/// Set the coefficient of restitution. This will _not_ change the restitution of
/// existing contacts.
func (fix *Fixture) SetRestitution(restitution float64) {
	fix.restitution = restitution
}

/// Test a point for containment in this fixture.
/// @param p a point in world coordinates.
func (fix *Fixture) TestPoint(p Vec2) bool {
	return fix.shape.Contains(p, fix.GetBody().GetTransform())
}

/// Get the mass data for this fixture. The mass data is based on the density and
/// the shape. The rotational inertia is about the shape's origin.
func (fix *Fixture) GetMassData() MassData {
	return fix.shape.ComputeMass(fix.density)
}

/// Get the fixture's AABB. This AABB may be enlarge and/or stale.
/// If you need a more accurate AABB, compute it using the shape and
/// the body transform.
func (fix *Fixture) GetAABB() AABB {
	return fix.aabb
}

/// Closest-feature query against another fixture at the current body
/// transforms.
func (fix *Fixture) Separation(other *Fixture) Separation {
	return ComputeSeparation(
		fix.shape, fix.GetBody().GetTransform(),
		other.shape, other.GetBody().GetTransform(),
	)
}

func newFixture(world *World, body *Body, def *FixtureDef) *Fixture {
	return &Fixture{
		id:          NullFixtureID,
		body:        body.id,
		shape:       def.Shape,
		density:     def.Density,
		friction:    def.Friction,
		restitution: def.Restitution,
		filter:      def.Filter,
		isSensor:    def.IsSensor,
		proxyID:     E_nullProxy,
		world:       world,
		userData:    def.UserData,
	}
}

// These support body activation/deactivation.
func (fix *Fixture) createProxy(broadPhase *BroadPhase, xf Transform) {
	Assert(fix.proxyID == E_nullProxy)

	// Create proxy in the broad-phase.
	fix.aabb = fix.shape.ComputeAABB(xf)
	fix.proxyID = broadPhase.CreateProxy(fix.aabb, fix.id)
}

func (fix *Fixture) destroyProxy(broadPhase *BroadPhase) {
	if fix.proxyID == E_nullProxy {
		return
	}
	broadPhase.DestroyProxy(fix.proxyID)
	fix.proxyID = E_nullProxy
}

func (fix *Fixture) synchronize(broadPhase *BroadPhase, transform1 Transform, transform2 Transform) {
	if fix.proxyID == E_nullProxy {
		return
	}

	// Compute an AABB that covers the swept shape (may miss some rotation effect).
	aabb := fix.shape.ComputeAABB(transform1)
	aabb.CombineInPlace(fix.shape.ComputeAABB(transform2))
	fix.aabb = aabb

	displacement := Vec2Sub(transform2.P, transform1.P)
	broadPhase.MoveProxy(fix.proxyID, fix.aabb, displacement)
}

func (fix *Fixture) Dump(bodyIndex int) {
	logger := fix.world.logger
	if logger == nil {
		return
	}

	logger.Printf("    fd := MakeFixtureDef()")
	logger.Printf("    fd.Friction = %.15e", fix.friction)
	logger.Printf("    fd.Restitution = %.15e", fix.restitution)
	logger.Printf("    fd.Density = %.15e", fix.density)
	logger.Printf("    fd.IsSensor = %t", fix.isSensor)
	logger.Printf("    fd.Filter.CategoryBits = %d", fix.filter.CategoryBits)
	logger.Printf("    fd.Filter.MaskBits = %d", fix.filter.MaskBits)
	logger.Printf("    fd.Filter.GroupIndex = %d", fix.filter.GroupIndex)

	switch s := fix.shape.(type) {
	case *CircleShape:
		logger.Printf("    fd.Shape, _ = MakeCircleShapeAt(MakeVec2(%.15e, %.15e), %.15e)", s.p.X, s.p.Y, s.radius)
	case *SegmentShape:
		logger.Printf("    fd.Shape, _ = MakeSegmentShape(MakeVec2(%.15e, %.15e), MakeVec2(%.15e, %.15e))",
			s.vertex1.X, s.vertex1.Y, s.vertex2.X, s.vertex2.Y)
	case *PolygonShape:
		logger.Printf("    vs := make([]Vec2, %d)", len(s.vertices))
		for i, v := range s.vertices {
			logger.Printf("    vs[%d] = MakeVec2(%.15e, %.15e)", i, v.X, v.Y)
		}
		logger.Printf("    fd.Shape, _ = MakePolygonShape(vs)")
	default:
		return
	}

	logger.Printf("    bodies[%d].CreateFixture(fd)", bodyIndex)
}
