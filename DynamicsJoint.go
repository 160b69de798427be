package dyn4j

var JointType = struct {
	E_unknownJoint uint8
	E_pulleyJoint  uint8
	E_mouseJoint   uint8
}{
	E_unknownJoint: 1,
	E_pulleyJoint:  5,
	E_mouseJoint:   6,
}

var LimitState = struct {
	E_inactiveLimit uint8
	E_atLowerLimit  uint8
	E_atUpperLimit  uint8
	E_equalLimits   uint8
}{
	E_inactiveLimit: 1,
	E_atLowerLimit:  2,
	E_atUpperLimit:  3,
	E_equalLimits:   4,
}

/// A joint edge is used to connect bodies and joints together
/// in a joint graph where each body is a node and each joint
/// is an edge. Each joint has one joint edge per attached body.
type JointEdge struct {
	Other BodyID ///< provides quick access to the other body attached, NullBodyID for single body joints.
	Joint Joint  ///< the joint
}

/// The solver contract shared by contacts and joints. Positions and
/// velocities in SolverData are indexed by island index.
type Constraint interface {
	InitVelocityConstraints(data SolverData)
	WarmStart(data SolverData)
	SolveVelocityConstraints(data SolverData)

	/// Returns true when the position error is within tolerance.
	SolvePositionConstraints(data SolverData) bool
}

/// Joints are used to constraint two bodies together in
/// various fashions. Some joints also feature limits.
type Joint interface {
	Constraint

	GetType() uint8

	/// Get the first body attached to this joint, nil for single body joints.
	GetBodyA() *Body

	/// Get the second body attached to this joint.
	GetBodyB() *Body

	/// Get the anchor point on bodyA in world coordinates.
	GetAnchorA() Vec2

	/// Get the anchor point on bodyB in world coordinates.
	GetAnchorB() Vec2

	/// Get the reaction force on bodyB at the joint anchor in Newtons.
	GetReactionForce(invDt float64) Vec2

	/// Get the reaction torque on bodyB in N*m.
	GetReactionTorque(invDt float64) float64

	GetUserData() interface{}
	SetUserData(data interface{})

	/// Get collide connected.
	/// Note: modifying the collide connect flag won't work correctly because
	/// the flag is only checked when fixture AABBs begin to overlap.
	IsCollideConnected() bool

	/// Shift the origin for any points stored in world coordinates.
	ShiftOrigin(newOrigin Vec2)

	/// Dump this joint to the world logger.
	Dump()

	base() *BaseJoint
}

/// BaseJoint holds the state every joint kind shares.
type BaseJoint struct {
	jointType        uint8
	edgeA            *JointEdge
	edgeB            *JointEdge
	bodyA            BodyID
	bodyB            BodyID
	index            int
	islandFlag       bool
	collideConnected bool
	userData         interface{}
	world            *World
}

func makeBaseJoint(world *World, jointType uint8, bodyA *Body, bodyB *Body, collideConnected bool, userData interface{}) BaseJoint {
	j := BaseJoint{
		jointType:        jointType,
		bodyA:            NullBodyID,
		bodyB:            NullBodyID,
		collideConnected: collideConnected,
		userData:         userData,
		world:            world,
	}
	if bodyA != nil {
		j.bodyA = bodyA.id
	}
	if bodyB != nil {
		j.bodyB = bodyB.id
	}
	return j
}

func (j *BaseJoint) base() *BaseJoint {
	return j
}

func (j *BaseJoint) GetType() uint8 {
	return j.jointType
}

func (j *BaseJoint) GetBodyA() *Body {
	return j.world.arena.body(j.bodyA)
}

func (j *BaseJoint) GetBodyB() *Body {
	return j.world.arena.body(j.bodyB)
}

func (j *BaseJoint) GetUserData() interface{} {
	return j.userData
}

func (j *BaseJoint) SetUserData(data interface{}) {
	j.userData = data
}

func (j *BaseJoint) IsCollideConnected() bool {
	return j.collideConnected
}

func (j *BaseJoint) GetIndex() int {
	return j.index
}

// Solver view of one attached body.
type jointBody struct {
	index       int
	localCenter Vec2
	invMass     float64
	invI        float64
}

func makeJointBody(body *Body) jointBody {
	return jointBody{
		index:       body.islandIndex,
		localCenter: body.sweep.LocalCenter,
		invMass:     body.invMass,
		invI:        body.invI,
	}
}

func validateJointBodies(world *World, bodies ...*Body) error {
	if world == nil {
		return missingArgument("world")
	}
	for _, b := range bodies {
		if b == nil {
			return missingArgument("body")
		}
		if b.world != world {
			return invalidArgument("body", "body belongs to another world")
		}
	}
	if world.IsLocked() {
		return worldLocked("CreateJoint")
	}
	return nil
}
