package dyn4j

/// The body type.
/// static: zero mass, zero velocity, may be manually moved
/// kinematic: zero mass, non-zero velocity set by user, moved by solver
/// dynamic: positive mass, non-zero velocity determined by forces, moved by solver
var BodyType = struct {
	E_staticBody    uint8
	E_kinematicBody uint8
	E_dynamicBody   uint8
}{
	E_staticBody:    0,
	E_kinematicBody: 1,
	E_dynamicBody:   2,
}

/// A body definition holds all the data needed to construct a rigid body.
/// You can safely re-use body definitions. Fixtures are added to a body after construction.
type BodyDef struct {
	/// The body type: static, kinematic, or dynamic.
	/// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type uint8

	/// The world position of the body.
	Position Vec2

	/// The world angle of the body in radians.
	Angle float64

	/// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity Vec2

	/// The angular velocity of the body.
	AngularVelocity float64

	/// Linear damping is use to reduce the linear velocity. Units are 1/time
	LinearDamping float64

	/// Angular damping is use to reduce the angular velocity. Units are 1/time
	AngularDamping float64

	/// Set this flag to false if this body should never fall asleep.
	AllowSleep bool

	/// Is this body initially awake or sleeping?
	Awake bool

	/// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	/// Is this a fast moving body that should always be swept by the TOI
	/// solver, whatever its speed?
	Bullet bool

	/// Use this to store application specific body data.
	UserData interface{}

	/// Scale the gravity applied to this body.
	GravityScale float64
}

/// This constructor sets the body definition default values.
func MakeBodyDef() BodyDef {
	return BodyDef{
		AllowSleep:   true,
		Awake:        true,
		Type:         BodyType.E_staticBody,
		GravityScale: 1.0,
	}
}

var bodyFlags = struct {
	E_islandFlag        uint32
	E_awakeFlag         uint32
	E_autoSleepFlag     uint32
	E_bulletFlag        uint32
	E_fixedRotationFlag uint32
	E_toiFlag           uint32
}{
	E_islandFlag:        0x0001,
	E_awakeFlag:         0x0002,
	E_autoSleepFlag:     0x0004,
	E_bulletFlag:        0x0008,
	E_fixedRotationFlag: 0x0010,
	E_toiFlag:           0x0040,
}

/// A rigid body. These are created via World.CreateBody.
type Body struct {
	id       BodyID
	bodyType uint8
	flags    uint32

	islandIndex int

	xf    Transform // the body origin transform
	sweep Sweep     // the swept motion for CCD

	linearVelocity  Vec2
	angularVelocity float64

	force  Vec2
	torque float64

	world *World

	fixtures     []FixtureID
	jointEdges   []*JointEdge
	contactEdges []*ContactEdge

	mass, invMass float64

	// Rotational inertia about the center of mass.
	I, invI float64

	linearDamping  float64
	angularDamping float64
	gravityScale   float64

	sleepTime float64

	userData interface{}
}

func (body *Body) GetID() BodyID {
	return body.id
}

func (body *Body) GetType() uint8 {
	return body.bodyType
}

/// Get the body transform for the body's origin.
func (body *Body) GetTransform() Transform {
	return body.xf
}

/// Get the world body origin position.
func (body *Body) GetPosition() Vec2 {
	return body.xf.P
}

/// Get the angle in radians.
func (body *Body) GetAngle() float64 {
	return body.sweep.A
}

/// Get the world position of the center of mass.
func (body *Body) GetWorldCenter() Vec2 {
	return body.sweep.C
}

/// Get the local position of the center of mass.
func (body *Body) GetLocalCenter() Vec2 {
	return body.sweep.LocalCenter
}

func (body *Body) GetSweep() Sweep {
	return body.sweep
}

/// Set the linear velocity of the center of mass.
func (body *Body) SetLinearVelocity(v Vec2) {
	if body.bodyType == BodyType.E_staticBody {
		return
	}

	if Vec2Dot(v, v) > 0.0 {
		body.SetAwake(true)
	}

	body.linearVelocity = v
}

func (body *Body) GetLinearVelocity() Vec2 {
	return body.linearVelocity
}

func (body *Body) SetAngularVelocity(w float64) {
	if body.bodyType == BodyType.E_staticBody {
		return
	}

	if w*w > 0.0 {
		body.SetAwake(true)
	}

	body.angularVelocity = w
}

func (body *Body) GetAngularVelocity() float64 {
	return body.angularVelocity
}

/// Get the total mass of the body, usually in kilograms (kg).
func (body *Body) GetMass() float64 {
	return body.mass
}

func (body *Body) GetInverseMass() float64 {
	return body.invMass
}

/// Get the rotational inertia of the body about the local origin.
func (body *Body) GetInertia() float64 {
	return body.I + body.mass*Vec2Dot(body.sweep.LocalCenter, body.sweep.LocalCenter)
}

func (body *Body) GetInverseInertia() float64 {
	return body.invI
}

func (body *Body) GetMassData() MassData {
	return MassData{
		Mass:   body.mass,
		I:      body.GetInertia(),
		Center: body.sweep.LocalCenter,
	}
}

func (body *Body) GetWorldPoint(localPoint Vec2) Vec2 {
	return TransformVec2Mul(body.xf, localPoint)
}

func (body *Body) GetWorldVector(localVector Vec2) Vec2 {
	return RotVec2Mul(body.xf.Q, localVector)
}

func (body *Body) GetLocalPoint(worldPoint Vec2) Vec2 {
	return TransformVec2MulT(body.xf, worldPoint)
}

func (body *Body) GetLocalVector(worldVector Vec2) Vec2 {
	return RotVec2MulT(body.xf.Q, worldVector)
}

func (body *Body) GetLinearVelocityFromWorldPoint(worldPoint Vec2) Vec2 {
	return Vec2Add(body.linearVelocity, Vec2CrossScalarVector(body.angularVelocity, Vec2Sub(worldPoint, body.sweep.C)))
}

func (body *Body) GetLinearVelocityFromLocalPoint(localPoint Vec2) Vec2 {
	return body.GetLinearVelocityFromWorldPoint(body.GetWorldPoint(localPoint))
}

func (body *Body) GetLinearDamping() float64 {
	return body.linearDamping
}

func (body *Body) SetLinearDamping(linearDamping float64) {
	body.linearDamping = linearDamping
}

func (body *Body) GetAngularDamping() float64 {
	return body.angularDamping
}

func (body *Body) SetAngularDamping(angularDamping float64) {
	body.angularDamping = angularDamping
}

func (body *Body) GetGravityScale() float64 {
	return body.gravityScale
}

func (body *Body) SetGravityScale(scale float64) {
	body.gravityScale = scale
}

/// Should this body be treated like a bullet for continuous collision detection?
func (body *Body) SetBullet(flag bool) {
	if flag {
		body.flags |= bodyFlags.E_bulletFlag
	} else {
		body.flags &= ^bodyFlags.E_bulletFlag
	}
}

func (body *Body) IsBullet() bool {
	return (body.flags & bodyFlags.E_bulletFlag) == bodyFlags.E_bulletFlag
}

/// Set the sleep state of the body. A sleeping body has very
/// low CPU cost.
func (body *Body) SetAwake(flag bool) {
	if flag {
		body.flags |= bodyFlags.E_awakeFlag
		body.sleepTime = 0.0
	} else {
		body.flags &= ^bodyFlags.E_awakeFlag
		body.sleepTime = 0.0
		body.linearVelocity.SetZero()
		body.angularVelocity = 0.0
		body.force.SetZero()
		body.torque = 0.0
	}
}

func (body *Body) IsAwake() bool {
	return (body.flags & bodyFlags.E_awakeFlag) == bodyFlags.E_awakeFlag
}

func (body *Body) IsFixedRotation() bool {
	return (body.flags & bodyFlags.E_fixedRotationFlag) == bodyFlags.E_fixedRotationFlag
}

/// Set this body to have fixed rotation. This causes the mass
/// to be reset.
func (body *Body) SetFixedRotation(flag bool) {
	if body.IsFixedRotation() == flag {
		return
	}

	if flag {
		body.flags |= bodyFlags.E_fixedRotationFlag
	} else {
		body.flags &= ^bodyFlags.E_fixedRotationFlag
	}

	body.angularVelocity = 0.0
	body.ResetMassData()
}

/// You can disable sleeping on this body. If you disable sleeping, the
/// body will be woken.
func (body *Body) SetSleepingAllowed(flag bool) {
	if flag {
		body.flags |= bodyFlags.E_autoSleepFlag
	} else {
		body.flags &= ^bodyFlags.E_autoSleepFlag
		body.SetAwake(true)
	}
}

func (body *Body) IsSleepingAllowed() bool {
	return (body.flags & bodyFlags.E_autoSleepFlag) == bodyFlags.E_autoSleepFlag
}

/// Fixtures in creation order.
func (body *Body) GetFixtures() []*Fixture {
	fixtures := make([]*Fixture, 0, len(body.fixtures))
	for _, id := range body.fixtures {
		fixtures = append(fixtures, body.world.arena.fixture(id))
	}
	return fixtures
}

func (body *Body) GetJointEdges() []*JointEdge {
	return body.jointEdges
}

func (body *Body) GetContactEdges() []*ContactEdge {
	return body.contactEdges
}

func (body *Body) GetWorld() *World {
	return body.world
}

func (body *Body) SetUserData(data interface{}) {
	body.userData = data
}

func (body *Body) GetUserData() interface{} {
	return body.userData
}

/// Apply a force at a world point. If the force is not
/// applied at the center of mass, it will generate a torque and
/// affect the angular velocity.
func (body *Body) ApplyForce(force Vec2, point Vec2, wake bool) {
	if body.bodyType != BodyType.E_dynamicBody {
		return
	}

	if wake && !body.IsAwake() {
		body.SetAwake(true)
	}

	// Don't accumulate a force if the body is sleeping.
	if body.IsAwake() {
		body.force.AddInPlace(force)
		body.torque += Vec2Cross(Vec2Sub(point, body.sweep.C), force)
	}
}

func (body *Body) ApplyForceToCenter(force Vec2, wake bool) {
	if body.bodyType != BodyType.E_dynamicBody {
		return
	}

	if wake && !body.IsAwake() {
		body.SetAwake(true)
	}

	if body.IsAwake() {
		body.force.AddInPlace(force)
	}
}

func (body *Body) ApplyTorque(torque float64, wake bool) {
	if body.bodyType != BodyType.E_dynamicBody {
		return
	}

	if wake && !body.IsAwake() {
		body.SetAwake(true)
	}

	if body.IsAwake() {
		body.torque += torque
	}
}

/// Apply an impulse at a point. This immediately modifies the velocity.
/// It also modifies the angular velocity if the point of application
/// is not at the center of mass.
func (body *Body) ApplyLinearImpulse(impulse Vec2, point Vec2, wake bool) {
	if body.bodyType != BodyType.E_dynamicBody {
		return
	}

	if wake && !body.IsAwake() {
		body.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if body.IsAwake() {
		body.linearVelocity.AddInPlace(Vec2MulScalar(body.invMass, impulse))
		body.angularVelocity += body.invI * Vec2Cross(Vec2Sub(point, body.sweep.C), impulse)
	}
}

func (body *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if body.bodyType != BodyType.E_dynamicBody {
		return
	}

	if wake && !body.IsAwake() {
		body.SetAwake(true)
	}

	if body.IsAwake() {
		body.angularVelocity += body.invI * impulse
	}
}

func (body *Body) SynchronizeTransform() {
	body.xf.Q.Set(body.sweep.A)
	body.xf.P = Vec2Sub(body.sweep.C, RotVec2Mul(body.xf.Q, body.sweep.LocalCenter))
}

/// Advance to the new safe time. This doesn't sync the broad-phase.
func (body *Body) Advance(alpha float64) {
	body.sweep.Advance(alpha)
	body.sweep.C = body.sweep.C0
	body.sweep.A = body.sweep.A0
	body.SynchronizeTransform()
}

func newBody(bd *BodyDef, world *World) *Body {
	body := &Body{
		id:          NullBodyID,
		bodyType:    bd.Type,
		islandIndex: -1,
		world:       world,
	}

	if bd.Bullet {
		body.flags |= bodyFlags.E_bulletFlag
	}
	if bd.FixedRotation {
		body.flags |= bodyFlags.E_fixedRotationFlag
	}
	if bd.AllowSleep {
		body.flags |= bodyFlags.E_autoSleepFlag
	}
	if bd.Awake {
		body.flags |= bodyFlags.E_awakeFlag
	}

	body.xf.P = bd.Position
	body.xf.Q.Set(bd.Angle)

	body.sweep.LocalCenter.SetZero()
	body.sweep.C0 = body.xf.P
	body.sweep.C = body.xf.P
	body.sweep.A0 = bd.Angle
	body.sweep.A = bd.Angle
	body.sweep.Alpha0 = 0.0

	body.linearVelocity = bd.LinearVelocity
	body.angularVelocity = bd.AngularVelocity

	body.linearDamping = bd.LinearDamping
	body.angularDamping = bd.AngularDamping
	body.gravityScale = bd.GravityScale

	if body.bodyType == BodyType.E_dynamicBody {
		body.mass = 1.0
		body.invMass = 1.0
	}

	body.userData = bd.UserData
	return body
}

func validateBodyDef(bd *BodyDef) error {
	switch {
	case !bd.Position.IsValid():
		return invalidArgument("Position", "position must be finite")
	case !bd.LinearVelocity.IsValid():
		return invalidArgument("LinearVelocity", "linear velocity must be finite")
	case !IsValid(bd.Angle):
		return invalidArgument("Angle", "angle must be finite")
	case !IsValid(bd.AngularVelocity):
		return invalidArgument("AngularVelocity", "angular velocity must be finite")
	case !IsValid(bd.LinearDamping) || bd.LinearDamping < 0.0:
		return invalidArgument("LinearDamping", "linear damping must not be negative")
	case !IsValid(bd.AngularDamping) || bd.AngularDamping < 0.0:
		return invalidArgument("AngularDamping", "angular damping must not be negative")
	case bd.Type > BodyType.E_dynamicBody:
		return invalidArgument("Type", "unknown body type")
	}
	return nil
}

/// Creates a fixture and attach it to this body.
/// If the density is non-zero, this function automatically updates the mass of the body.
/// Contacts are not created until the next time step.
/// Fails with a WORLD_LOCKED error when called during a step.
func (body *Body) CreateFixture(def FixtureDef) (*Fixture, error) {
	world := body.world
	if world.IsLocked() {
		return nil, worldLocked("CreateFixture")
	}
	if def.Shape == nil {
		return nil, missingArgument("Shape")
	}
	if !IsValid(def.Density) || def.Density < 0.0 {
		return nil, invalidArgument("Density", "density must not be negative")
	}
	if !IsValid(def.Friction) || def.Friction < 0.0 {
		return nil, invalidArgument("Friction", "friction must not be negative")
	}
	if !IsValid(def.Restitution) || def.Restitution < 0.0 {
		return nil, invalidArgument("Restitution", "restitution must not be negative")
	}

	fixture := newFixture(world, body, &def)
	world.arena.addFixture(fixture)
	fixture.createProxy(&world.contactManager.broadPhase, body.xf)
	body.fixtures = append(body.fixtures, fixture.id)

	// Adjust mass properties if needed.
	if fixture.density > 0.0 {
		body.ResetMassData()
	}

	// Let the world know we have a new fixture. This will cause new contacts
	// to be created at the beginning of the next time step.
	world.flags |= worldFlags.E_newFixture

	return fixture, nil
}

/// Creates a fixture from a shape and attach it to this body.
/// This is a convenience function. Use FixtureDef if you need to set parameters
/// like friction, restitution, user data, or filtering.
func (body *Body) CreateFixtureFromShape(shape Shape, density float64) (*Fixture, error) {
	def := MakeFixtureDef()
	def.Shape = shape
	def.Density = density
	return body.CreateFixture(def)
}

/// Destroy a fixture. This removes the fixture from the broad-phase and
/// destroys all contacts associated with this fixture. This will
/// automatically adjust the mass of the body if the body is dynamic and the
/// fixture has positive density.
func (body *Body) DestroyFixture(fixture *Fixture) error {
	if fixture == nil {
		return missingArgument("fixture")
	}
	if body.world.IsLocked() {
		return worldLocked("DestroyFixture")
	}
	if fixture.body != body.id {
		return invalidArgument("fixture", "fixture is not attached to this body")
	}

	body.destroyFixture(fixture)

	// Reset the mass data.
	body.ResetMassData()
	return nil
}

func (body *Body) destroyFixture(fixture *Fixture) {
	world := body.world

	found := false
	for i, id := range body.fixtures {
		if id == fixture.id {
			body.fixtures = append(body.fixtures[:i], body.fixtures[i+1:]...)
			found = true
			break
		}
	}

	// You tried to remove a shape that is not attached to this body.
	Assert(found)

	// Destroy any contacts associated with the fixture.
	edges := append([]*ContactEdge(nil), body.contactEdges...)
	for _, edge := range edges {
		c := edge.Contact
		if c.GetFixtureA() == fixture.id || c.GetFixtureB() == fixture.id {
			// This destroys the contact and removes it from
			// this body's contact list.
			world.contactManager.Destroy(c)
		}
	}

	fixture.destroyProxy(&world.contactManager.broadPhase)
	world.arena.removeFixture(fixture.id)
	fixture.world = nil
	fixture.body = NullBodyID
}

/// This resets the mass properties to the sum of the mass properties of the fixtures.
/// This normally does not need to be called unless you called SetMassData to override
/// the mass and you later want to reset the mass.
func (body *Body) ResetMassData() {
	// Compute mass data from shapes. Each shape has its own density.
	body.mass = 0.0
	body.invMass = 0.0
	body.I = 0.0
	body.invI = 0.0
	body.sweep.LocalCenter.SetZero()

	// Static and kinematic bodies have zero mass.
	if body.bodyType == BodyType.E_staticBody || body.bodyType == BodyType.E_kinematicBody {
		body.sweep.C0 = body.xf.P
		body.sweep.C = body.xf.P
		body.sweep.A0 = body.sweep.A
		return
	}

	Assert(body.bodyType == BodyType.E_dynamicBody)

	// Accumulate mass over all fixtures.
	localCenter := Vec2{}
	for _, f := range body.GetFixtures() {
		if f.density == 0.0 {
			continue
		}

		massData := f.GetMassData()
		body.mass += massData.Mass
		localCenter.AddInPlace(Vec2MulScalar(massData.Mass, massData.Center))
		body.I += massData.I
	}

	// Compute center of mass.
	if body.mass > 0.0 {
		body.invMass = 1.0 / body.mass
		localCenter.ScaleInPlace(body.invMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		body.mass = 1.0
		body.invMass = 1.0
	}

	if body.I > 0.0 && !body.IsFixedRotation() {
		// Center the inertia about the center of mass.
		body.I -= body.mass * Vec2Dot(localCenter, localCenter)
		Assert(body.I > 0.0)
		body.invI = 1.0 / body.I
	} else {
		body.I = 0.0
		body.invI = 0.0
	}

	// Move center of mass.
	oldCenter := body.sweep.C
	body.sweep.LocalCenter = localCenter
	body.sweep.C0 = TransformVec2Mul(body.xf, body.sweep.LocalCenter)
	body.sweep.C = body.sweep.C0

	// Update center of mass velocity.
	body.linearVelocity.AddInPlace(Vec2CrossScalarVector(body.angularVelocity, Vec2Sub(body.sweep.C, oldCenter)))
}

/// This is used to prevent connected bodies from colliding.
/// It may lie, depending on the collideConnected flag.
func (body *Body) ShouldCollide(other *Body) bool {
	// At least one body should be dynamic.
	if body.bodyType != BodyType.E_dynamicBody && other.bodyType != BodyType.E_dynamicBody {
		return false
	}

	// Does a joint prevent collision?
	for _, jn := range body.jointEdges {
		if jn.Other == other.id {
			if !jn.Joint.IsCollideConnected() {
				return false
			}
		}
	}

	return true
}

/// Set the position of the body's origin and rotation.
/// Manipulating a body's transform may cause non-physical behavior.
/// Note: contacts are updated on the next call to World.Step.
func (body *Body) SetTransform(position Vec2, angle float64) error {
	if body.world.IsLocked() {
		return worldLocked("SetTransform")
	}

	body.xf.Q.Set(angle)
	body.xf.P = position

	body.sweep.C = TransformVec2Mul(body.xf, body.sweep.LocalCenter)
	body.sweep.A = angle

	body.sweep.C0 = body.sweep.C
	body.sweep.A0 = angle

	broadPhase := &body.world.contactManager.broadPhase
	for _, f := range body.GetFixtures() {
		f.synchronize(broadPhase, body.xf, body.xf)
	}
	body.world.flags |= worldFlags.E_newFixture
	return nil
}

func (body *Body) SynchronizeFixtures() {
	xf1 := MakeTransform()
	xf1.Q.Set(body.sweep.A0)
	xf1.P = Vec2Sub(body.sweep.C0, RotVec2Mul(xf1.Q, body.sweep.LocalCenter))

	broadPhase := &body.world.contactManager.broadPhase
	for _, f := range body.GetFixtures() {
		f.synchronize(broadPhase, xf1, body.xf)
	}
}

// Smallest fixture extent; a body moving further than this in one step may
// tunnel.
func (body *Body) minExtent() float64 {
	extent := MaxFloat
	for _, f := range body.GetFixtures() {
		if e := f.shape.GetExtent(); e < extent {
			extent = e
		}
	}
	return extent
}

func (body *Body) removeContactEdge(edge *ContactEdge) {
	for i, e := range body.contactEdges {
		if e == edge {
			body.contactEdges = append(body.contactEdges[:i], body.contactEdges[i+1:]...)
			return
		}
	}
}

func (body *Body) removeJointEdge(edge *JointEdge) {
	for i, e := range body.jointEdges {
		if e == edge {
			body.jointEdges = append(body.jointEdges[:i], body.jointEdges[i+1:]...)
			return
		}
	}
}

/// Dump this body to the world logger.
func (body *Body) Dump() {
	logger := body.world.logger
	if logger == nil {
		return
	}

	bodyIndex := int(body.id)
	logger.Printf("{")
	logger.Printf("  bd := MakeBodyDef()")
	logger.Printf("  bd.Type = %d", body.bodyType)
	logger.Printf("  bd.Position = MakeVec2(%.15e, %.15e)", body.xf.P.X, body.xf.P.Y)
	logger.Printf("  bd.Angle = %.15e", body.sweep.A)
	logger.Printf("  bd.LinearVelocity = MakeVec2(%.15e, %.15e)", body.linearVelocity.X, body.linearVelocity.Y)
	logger.Printf("  bd.AngularVelocity = %.15e", body.angularVelocity)
	logger.Printf("  bd.LinearDamping = %.15e", body.linearDamping)
	logger.Printf("  bd.AngularDamping = %.15e", body.angularDamping)
	logger.Printf("  bd.AllowSleep = %t", body.IsSleepingAllowed())
	logger.Printf("  bd.Awake = %t", body.IsAwake())
	logger.Printf("  bd.FixedRotation = %t", body.IsFixedRotation())
	logger.Printf("  bd.Bullet = %t", body.IsBullet())
	logger.Printf("  bd.GravityScale = %.15e", body.gravityScale)
	logger.Printf("  bodies[%d], _ = world.CreateBody(bd)", bodyIndex)
	for _, f := range body.GetFixtures() {
		logger.Printf("  {")
		f.Dump(bodyIndex)
		logger.Printf("  }")
	}
	logger.Printf("}")
}
