package dyn4j

import (
	"math"
)

/// Mouse joint definition. This requires a world target point,
/// tuning parameters, and the time step.
type MouseJointDef struct {
	/// The body that is dragged.
	Body *Body

	/// The initial world target point. This is assumed
	/// to coincide with the body anchor initially.
	Target *Vec2

	/// The mass-spring-damper frequency in Hertz. A dynamic body
	/// should have a frequency less than half the time step rate.
	Frequency float64

	/// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64

	/// The maximum constraint force that can be exerted
	/// to move the candidate body. Usually you will express
	/// as some multiple of the weight (multiplier * mass * gravity).
	MaxForce float64

	UserData interface{}
}

func MakeMouseJointDef() MouseJointDef {
	return MouseJointDef{
		Frequency:    5.0,
		DampingRatio: 0.7,
		MaxForce:     0.0,
	}
}

/// A mouse joint is used to make a point on a body track a
/// specified world point. This a soft constraint with a maximum
/// force. This allows the constraint to stretch and without
/// applying huge forces.
type MouseJoint struct {
	BaseJoint

	localAnchorB Vec2
	targetA      Vec2
	frequency    float64
	dampingRatio float64
	beta         float64

	// Solver shared
	impulse  Vec2
	maxForce float64
	gamma    float64

	// Solver temp
	b    jointBody
	rB   Vec2
	mass Mat22
	C    Vec2
}

func validateFrequency(hz float64) error {
	if !IsValid(hz) || hz <= 0.0 {
		return invalidArgument("Frequency", "frequency must be greater than zero")
	}
	return nil
}

func validateDampingRatio(ratio float64) error {
	if !IsValid(ratio) || ratio < 0.0 || ratio > 1.0 {
		return invalidArgument("DampingRatio", "damping ratio must be in [0, 1]")
	}
	return nil
}

func validateMaxForce(force float64) error {
	if !IsValid(force) || force < 0.0 {
		return invalidArgument("MaxForce", "maximum force must not be negative")
	}
	return nil
}

/// Create a mouse joint and add it to the world. The body anchor is the
/// initial target.
func NewMouseJoint(world *World, def MouseJointDef) (*MouseJoint, error) {
	if def.Body == nil {
		return nil, missingArgument("Body")
	}
	if def.Target == nil {
		return nil, missingArgument("Target")
	}
	if !def.Target.IsValid() {
		return nil, invalidArgument("Target", "target must be finite")
	}
	if err := validateFrequency(def.Frequency); err != nil {
		return nil, err
	}
	if err := validateDampingRatio(def.DampingRatio); err != nil {
		return nil, err
	}
	if err := validateMaxForce(def.MaxForce); err != nil {
		return nil, err
	}
	if err := validateJointBodies(world, def.Body); err != nil {
		return nil, err
	}

	joint := &MouseJoint{
		BaseJoint:    makeBaseJoint(world, JointType.E_mouseJoint, nil, def.Body, false, def.UserData),
		targetA:      *def.Target,
		maxForce:     def.MaxForce,
		frequency:    def.Frequency,
		dampingRatio: def.DampingRatio,
	}
	joint.localAnchorB = TransformVec2MulT(def.Body.GetTransform(), joint.targetA)

	world.addJoint(joint)
	return joint, nil
}

/// Use this to update the target point.
func (joint *MouseJoint) SetTarget(target *Vec2) error {
	if target == nil {
		return missingArgument("Target")
	}
	if !target.IsValid() {
		return invalidArgument("Target", "target must be finite")
	}
	if *target != joint.targetA {
		joint.GetBodyB().SetAwake(true)
		joint.targetA = *target
	}
	return nil
}

func (joint *MouseJoint) GetTarget() Vec2 {
	return joint.targetA
}

/// Set/get the maximum force in Newtons.
func (joint *MouseJoint) SetMaxForce(force float64) error {
	if err := validateMaxForce(force); err != nil {
		return err
	}
	joint.maxForce = force
	return nil
}

func (joint *MouseJoint) GetMaxForce() float64 {
	return joint.maxForce
}

/// Set/get the frequency in Hertz.
func (joint *MouseJoint) SetFrequency(hz float64) error {
	if err := validateFrequency(hz); err != nil {
		return err
	}
	joint.frequency = hz
	return nil
}

func (joint *MouseJoint) GetFrequency() float64 {
	return joint.frequency
}

/// Set/get the damping ratio (dimensionless).
func (joint *MouseJoint) SetDampingRatio(ratio float64) error {
	if err := validateDampingRatio(ratio); err != nil {
		return err
	}
	joint.dampingRatio = ratio
	return nil
}

func (joint *MouseJoint) GetDampingRatio() float64 {
	return joint.dampingRatio
}

func (joint *MouseJoint) InitVelocityConstraints(data SolverData) {
	bodyB := joint.GetBodyB()
	joint.b = makeJointBody(bodyB)

	cB := data.Positions[joint.b.index].C
	aB := data.Positions[joint.b.index].A
	wB := data.Velocities[joint.b.index].W

	qB := MakeRotFromAngle(aB)

	mass := bodyB.GetMass()

	// Frequency
	omega := 2.0 * math.Pi * joint.frequency

	// Damping coefficient
	d := 2.0 * mass * joint.dampingRatio * omega

	// Spring stiffness
	k := mass * (omega * omega)

	// magic formulas
	// gamma has units of inverse mass.
	// beta has units of inverse time.
	h := data.Step.Dt
	joint.gamma = h * (d + h*k)
	if joint.gamma != 0.0 {
		joint.gamma = 1.0 / joint.gamma
	}
	joint.beta = h * k * joint.gamma

	// Compute the effective mass matrix.
	joint.rB = RotVec2Mul(qB, Vec2Sub(joint.localAnchorB, joint.b.localCenter))

	// K    = [(1/m1 + 1/m2) * eye(2) - skew(r1) * invI1 * skew(r1) - skew(r2) * invI2 * skew(r2)]
	//      = [1/m1+1/m2     0    ] + invI1 * [r1.y*r1.y -r1.x*r1.y] + invI2 * [r1.y*r1.y -r1.x*r1.y]
	//        [    0     1/m1+1/m2]           [-r1.x*r1.y r1.x*r1.x]           [-r1.x*r1.y r1.x*r1.x]
	mB := joint.b.invMass
	iB := joint.b.invI
	K := MakeMat22FromScalars(
		mB+iB*joint.rB.Y*joint.rB.Y+joint.gamma, -iB*joint.rB.X*joint.rB.Y,
		-iB*joint.rB.X*joint.rB.Y, mB+iB*joint.rB.X*joint.rB.X+joint.gamma,
	)

	joint.mass = K.GetInverse()

	joint.C = Vec2Sub(Vec2Add(cB, joint.rB), joint.targetA)
	joint.C.ScaleInPlace(joint.beta)

	// Cheat with some damping
	wB *= 0.98
	data.Velocities[joint.b.index].W = wB
}

func (joint *MouseJoint) WarmStart(data SolverData) {
	if !data.Step.WarmStarting {
		joint.impulse.SetZero()
		return
	}

	vB := data.Velocities[joint.b.index].V
	wB := data.Velocities[joint.b.index].W

	joint.impulse.ScaleInPlace(data.Step.DtRatio)
	vB.AddInPlace(Vec2MulScalar(joint.b.invMass, joint.impulse))
	wB += joint.b.invI * Vec2Cross(joint.rB, joint.impulse)

	data.Velocities[joint.b.index].V = vB
	data.Velocities[joint.b.index].W = wB
}

func (joint *MouseJoint) SolveVelocityConstraints(data SolverData) {
	vB := data.Velocities[joint.b.index].V
	wB := data.Velocities[joint.b.index].W

	// Cdot = v + cross(w, r)
	Cdot := Vec2Add(vB, Vec2CrossScalarVector(wB, joint.rB))
	impulse := Vec2Mat22Mul(joint.mass, Vec2Add(Vec2Add(Cdot, joint.C), Vec2MulScalar(joint.gamma, joint.impulse)).Negate())

	oldImpulse := joint.impulse
	joint.impulse.AddInPlace(impulse)
	maxImpulse := data.Step.Dt * joint.maxForce
	if joint.impulse.LengthSquared() > maxImpulse*maxImpulse {
		if maxImpulse == 0.0 {
			joint.impulse.SetZero()
		} else {
			joint.impulse.ScaleInPlace(maxImpulse / joint.impulse.Length())
		}
	}
	impulse = Vec2Sub(joint.impulse, oldImpulse)

	vB.AddInPlace(Vec2MulScalar(joint.b.invMass, impulse))
	wB += joint.b.invI * Vec2Cross(joint.rB, impulse)

	data.Velocities[joint.b.index].V = vB
	data.Velocities[joint.b.index].W = wB
}

func (joint *MouseJoint) SolvePositionConstraints(data SolverData) bool {
	return true
}

func (joint *MouseJoint) GetAnchorA() Vec2 {
	return joint.targetA
}

func (joint *MouseJoint) GetAnchorB() Vec2 {
	return joint.GetBodyB().GetWorldPoint(joint.localAnchorB)
}

func (joint *MouseJoint) GetReactionForce(invDt float64) Vec2 {
	return Vec2MulScalar(invDt, joint.impulse)
}

func (joint *MouseJoint) GetReactionTorque(invDt float64) float64 {
	return invDt * 0.0
}

func (joint *MouseJoint) ShiftOrigin(newOrigin Vec2) {
	joint.targetA.SubInPlace(newOrigin)
}

func (joint *MouseJoint) Dump() {
	logger := joint.world.logger
	if logger == nil {
		return
	}

	logger.Printf("  jd := MakeMouseJointDef()")
	logger.Printf("  jd.Body = bodies[%d]", joint.bodyB)
	logger.Printf("  jd.Target = NewVec2(%.15e, %.15e)", joint.targetA.X, joint.targetA.Y)
	logger.Printf("  jd.Frequency = %.15e", joint.frequency)
	logger.Printf("  jd.DampingRatio = %.15e", joint.dampingRatio)
	logger.Printf("  jd.MaxForce = %.15e", joint.maxForce)
	logger.Printf("  joints[%d], _ = NewMouseJoint(world, jd)", joint.index)
}
