package dyn4j

import (
	"math"
)

/// Pulley joint definition. All points are in world coordinates and are
/// taken as the rest configuration.
type PulleyJointDef struct {
	BodyA *Body
	BodyB *Body

	/// The fixed pulley anchor for body A.
	PulleyAnchorA Vec2

	/// The fixed pulley anchor for body B.
	PulleyAnchorB Vec2

	/// The rope attachment point on body A.
	BodyAnchorA Vec2

	/// The rope attachment point on body B.
	BodyAnchorB Vec2

	/// The pulley ratio, used to simulate a block-and-tackle.
	Ratio float64

	/// The shortest either side of the rope may get. Zero disables the limits.
	MinLength float64

	/// Set this flag to true if the attached bodies should collide.
	CollideConnected bool

	UserData interface{}
}

/// This sets default values, the anchors must still be supplied.
func MakePulleyJointDef() PulleyJointDef {
	return PulleyJointDef{
		Ratio:            1.0,
		CollideConnected: false,
	}
}

/// The pulley joint is connected to two bodies and two fixed pulley anchors.
/// The pulley supports a ratio such that:
/// lengthA + ratio * lengthB <= constant
/// The rope only pulls. It goes slack when the bodies move toward their
/// pulleys. Yes, the force transmitted is scaled by the ratio.
type PulleyJoint struct {
	BaseJoint

	pulleyAnchorA Vec2
	pulleyAnchorB Vec2
	localAnchorA  Vec2
	localAnchorB  Vec2
	constant      float64
	ratio         float64
	minLength     float64

	impulse       float64
	limitImpulseA float64
	limitImpulseB float64
	ropeState     uint8
	limitStateA   uint8
	limitStateB   uint8

	// Solver temp
	a, b       jointBody
	uA, uB     Vec2
	rA, rB     Vec2
	mass       float64
	limitMassA float64
	limitMassB float64
	linearTol  float64
}

/// Create a pulley joint and add it to the world.
func NewPulleyJoint(world *World, def PulleyJointDef) (*PulleyJoint, error) {
	if def.BodyA == nil {
		return nil, missingArgument("BodyA")
	}
	if def.BodyB == nil {
		return nil, missingArgument("BodyB")
	}
	if def.BodyA == def.BodyB {
		return nil, invalidArgument("BodyB", "a pulley joint needs two different bodies")
	}
	if !IsValid(def.Ratio) || def.Ratio <= 0.0 {
		return nil, invalidArgument("Ratio", "ratio must be greater than zero")
	}
	if !IsValid(def.MinLength) || def.MinLength < 0.0 {
		return nil, invalidArgument("MinLength", "minimum length must not be negative")
	}
	for _, p := range []struct {
		name  string
		point Vec2
	}{
		{"PulleyAnchorA", def.PulleyAnchorA},
		{"PulleyAnchorB", def.PulleyAnchorB},
		{"BodyAnchorA", def.BodyAnchorA},
		{"BodyAnchorB", def.BodyAnchorB},
	} {
		if !p.point.IsValid() {
			return nil, invalidArgument(p.name, "anchor must be finite")
		}
	}
	if err := validateJointBodies(world, def.BodyA, def.BodyB); err != nil {
		return nil, err
	}

	joint := &PulleyJoint{
		BaseJoint:     makeBaseJoint(world, JointType.E_pulleyJoint, def.BodyA, def.BodyB, def.CollideConnected, def.UserData),
		pulleyAnchorA: def.PulleyAnchorA,
		pulleyAnchorB: def.PulleyAnchorB,
		localAnchorA:  def.BodyA.GetLocalPoint(def.BodyAnchorA),
		localAnchorB:  def.BodyB.GetLocalPoint(def.BodyAnchorB),
		ratio:         def.Ratio,
		minLength:     def.MinLength,
		ropeState:     LimitState.E_atUpperLimit,
		limitStateA:   LimitState.E_inactiveLimit,
		limitStateB:   LimitState.E_inactiveLimit,
	}

	lengthA := Vec2Distance(def.BodyAnchorA, def.PulleyAnchorA)
	lengthB := Vec2Distance(def.BodyAnchorB, def.PulleyAnchorB)
	joint.constant = lengthA + joint.ratio*lengthB

	world.addJoint(joint)
	return joint, nil
}

func (joint *PulleyJoint) GetPulleyAnchorA() Vec2 {
	return joint.pulleyAnchorA
}

func (joint *PulleyJoint) GetPulleyAnchorB() Vec2 {
	return joint.pulleyAnchorB
}

func (joint *PulleyJoint) GetRatio() float64 {
	return joint.ratio
}

/// The total rope length lengthA + ratio * lengthB.
func (joint *PulleyJoint) GetLength() float64 {
	return joint.constant
}

func (joint *PulleyJoint) GetMinLength() float64 {
	return joint.minLength
}

/// Whether the rope was taut at the start of the last step.
func (joint *PulleyJoint) IsTaut() bool {
	return joint.ropeState == LimitState.E_atUpperLimit
}

/// Get the current length of the segment attached to bodyA.
func (joint *PulleyJoint) GetCurrentLengthA() float64 {
	return Vec2Distance(joint.GetBodyA().GetWorldPoint(joint.localAnchorA), joint.pulleyAnchorA)
}

/// Get the current length of the segment attached to bodyB.
func (joint *PulleyJoint) GetCurrentLengthB() float64 {
	return Vec2Distance(joint.GetBodyB().GetWorldPoint(joint.localAnchorB), joint.pulleyAnchorB)
}

// ropeAxis returns the unit vector from the pulley anchor to the body anchor
// and the side length. Short sides have no usable direction.
func ropeAxis(c Vec2, r Vec2, pulleyAnchor Vec2, linearTol float64) (Vec2, float64) {
	u := Vec2Sub(Vec2Add(c, r), pulleyAnchor)
	length := u.Length()
	if length > 10.0*linearTol {
		u.ScaleInPlace(1.0 / length)
	} else {
		u.SetZero()
	}
	return u, length
}

func (joint *PulleyJoint) InitVelocityConstraints(data SolverData) {
	joint.a = makeJointBody(joint.GetBodyA())
	joint.b = makeJointBody(joint.GetBodyB())
	joint.linearTol = data.Step.Settings.LinearTolerance

	cA := data.Positions[joint.a.index].C
	aA := data.Positions[joint.a.index].A

	cB := data.Positions[joint.b.index].C
	aB := data.Positions[joint.b.index].A

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	joint.rA = RotVec2Mul(qA, Vec2Sub(joint.localAnchorA, joint.a.localCenter))
	joint.rB = RotVec2Mul(qB, Vec2Sub(joint.localAnchorB, joint.b.localCenter))

	// Get the pulley axes.
	var lengthA, lengthB float64
	joint.uA, lengthA = ropeAxis(cA, joint.rA, joint.pulleyAnchorA, joint.linearTol)
	joint.uB, lengthB = ropeAxis(cB, joint.rB, joint.pulleyAnchorB, joint.linearTol)

	// Compute effective mass.
	ruA := Vec2Cross(joint.rA, joint.uA)
	ruB := Vec2Cross(joint.rB, joint.uB)

	mA := joint.a.invMass + joint.a.invI*ruA*ruA
	mB := joint.b.invMass + joint.b.invI*ruB*ruB

	joint.mass = mA + joint.ratio*joint.ratio*mB
	if joint.mass > 0.0 {
		joint.mass = 1.0 / joint.mass
	}

	joint.limitMassA = 0.0
	if mA > 0.0 {
		joint.limitMassA = 1.0 / mA
	}
	joint.limitMassB = 0.0
	if mB > 0.0 {
		joint.limitMassB = 1.0 / mB
	}

	if lengthA+joint.ratio*lengthB >= joint.constant-joint.linearTol {
		joint.ropeState = LimitState.E_atUpperLimit
	} else {
		joint.ropeState = LimitState.E_inactiveLimit
		joint.impulse = 0.0
	}

	joint.limitStateA = joint.limitState(lengthA, &joint.limitImpulseA)
	joint.limitStateB = joint.limitState(lengthB, &joint.limitImpulseB)
}

func (joint *PulleyJoint) limitState(length float64, impulse *float64) uint8 {
	if joint.minLength > 0.0 && length <= joint.minLength+joint.linearTol {
		return LimitState.E_atLowerLimit
	}
	*impulse = 0.0
	return LimitState.E_inactiveLimit
}

func (joint *PulleyJoint) WarmStart(data SolverData) {
	if !data.Step.WarmStarting {
		joint.impulse = 0.0
		joint.limitImpulseA = 0.0
		joint.limitImpulseB = 0.0
		return
	}

	vA := data.Velocities[joint.a.index].V
	wA := data.Velocities[joint.a.index].W
	vB := data.Velocities[joint.b.index].V
	wB := data.Velocities[joint.b.index].W

	// Scale impulses to support variable time steps.
	joint.impulse *= data.Step.DtRatio
	joint.limitImpulseA *= data.Step.DtRatio
	joint.limitImpulseB *= data.Step.DtRatio

	PA := Vec2MulScalar(joint.limitImpulseA-joint.impulse, joint.uA)
	PB := Vec2MulScalar(joint.limitImpulseB-joint.ratio*joint.impulse, joint.uB)

	vA.AddInPlace(Vec2MulScalar(joint.a.invMass, PA))
	wA += joint.a.invI * Vec2Cross(joint.rA, PA)
	vB.AddInPlace(Vec2MulScalar(joint.b.invMass, PB))
	wB += joint.b.invI * Vec2Cross(joint.rB, PB)

	data.Velocities[joint.a.index].V = vA
	data.Velocities[joint.a.index].W = wA
	data.Velocities[joint.b.index].V = vB
	data.Velocities[joint.b.index].W = wB
}

func (joint *PulleyJoint) SolveVelocityConstraints(data SolverData) {
	vA := data.Velocities[joint.a.index].V
	wA := data.Velocities[joint.a.index].W
	vB := data.Velocities[joint.b.index].V
	wB := data.Velocities[joint.b.index].W

	// Solve the lower limits. They keep each side from shrinking below
	// the minimum length, so the accumulated impulses only push outward.
	if joint.limitStateA == LimitState.E_atLowerLimit {
		vpA := Vec2Add(vA, Vec2CrossScalarVector(wA, joint.rA))
		Cdot := Vec2Dot(joint.uA, vpA)
		impulse := -joint.limitMassA * Cdot
		oldImpulse := joint.limitImpulseA
		joint.limitImpulseA = math.Max(0.0, joint.limitImpulseA+impulse)
		impulse = joint.limitImpulseA - oldImpulse

		PA := Vec2MulScalar(impulse, joint.uA)
		vA.AddInPlace(Vec2MulScalar(joint.a.invMass, PA))
		wA += joint.a.invI * Vec2Cross(joint.rA, PA)
	}

	if joint.limitStateB == LimitState.E_atLowerLimit {
		vpB := Vec2Add(vB, Vec2CrossScalarVector(wB, joint.rB))
		Cdot := Vec2Dot(joint.uB, vpB)
		impulse := -joint.limitMassB * Cdot
		oldImpulse := joint.limitImpulseB
		joint.limitImpulseB = math.Max(0.0, joint.limitImpulseB+impulse)
		impulse = joint.limitImpulseB - oldImpulse

		PB := Vec2MulScalar(impulse, joint.uB)
		vB.AddInPlace(Vec2MulScalar(joint.b.invMass, PB))
		wB += joint.b.invI * Vec2Cross(joint.rB, PB)
	}

	if joint.ropeState == LimitState.E_atUpperLimit {
		vpA := Vec2Add(vA, Vec2CrossScalarVector(wA, joint.rA))
		vpB := Vec2Add(vB, Vec2CrossScalarVector(wB, joint.rB))

		// A positive accumulated impulse pulls both bodies toward their
		// pulleys. The rope cannot push.
		Cdot := -Vec2Dot(joint.uA, vpA) - joint.ratio*Vec2Dot(joint.uB, vpB)
		impulse := -joint.mass * Cdot
		oldImpulse := joint.impulse
		joint.impulse = math.Max(0.0, joint.impulse+impulse)
		impulse = joint.impulse - oldImpulse

		PA := Vec2MulScalar(-impulse, joint.uA)
		PB := Vec2MulScalar(-joint.ratio*impulse, joint.uB)
		vA.AddInPlace(Vec2MulScalar(joint.a.invMass, PA))
		wA += joint.a.invI * Vec2Cross(joint.rA, PA)
		vB.AddInPlace(Vec2MulScalar(joint.b.invMass, PB))
		wB += joint.b.invI * Vec2Cross(joint.rB, PB)
	}

	data.Velocities[joint.a.index].V = vA
	data.Velocities[joint.a.index].W = wA
	data.Velocities[joint.b.index].V = vB
	data.Velocities[joint.b.index].W = wB
}

func (joint *PulleyJoint) SolvePositionConstraints(data SolverData) bool {
	settings := &data.Step.Settings

	cA := data.Positions[joint.a.index].C
	aA := data.Positions[joint.a.index].A
	cB := data.Positions[joint.b.index].C
	aB := data.Positions[joint.b.index].A

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	rA := RotVec2Mul(qA, Vec2Sub(joint.localAnchorA, joint.a.localCenter))
	rB := RotVec2Mul(qB, Vec2Sub(joint.localAnchorB, joint.b.localCenter))

	// Get the pulley axes.
	uA, lengthA := ropeAxis(cA, rA, joint.pulleyAnchorA, settings.LinearTolerance)
	uB, lengthB := ropeAxis(cB, rB, joint.pulleyAnchorB, settings.LinearTolerance)

	// Compute effective mass.
	ruA := Vec2Cross(rA, uA)
	ruB := Vec2Cross(rB, uB)

	mA := joint.a.invMass + joint.a.invI*ruA*ruA
	mB := joint.b.invMass + joint.b.invI*ruB*ruB

	mass := mA + joint.ratio*joint.ratio*mB
	if mass > 0.0 {
		mass = 1.0 / mass
	}

	// Only a stretched rope is corrected.
	stretch := lengthA + joint.ratio*lengthB - joint.constant
	linearError := math.Max(0.0, stretch)

	if stretch > 0.0 {
		impulse := mass * FloatClamp(stretch, 0.0, settings.MaxLinearCorrection)

		PA := Vec2MulScalar(-impulse, uA)
		PB := Vec2MulScalar(-joint.ratio*impulse, uB)

		cA.AddInPlace(Vec2MulScalar(joint.a.invMass, PA))
		aA += joint.a.invI * Vec2Cross(rA, PA)
		cB.AddInPlace(Vec2MulScalar(joint.b.invMass, PB))
		aB += joint.b.invI * Vec2Cross(rB, PB)
	}

	if joint.minLength > 0.0 {
		// Push short sides back out to the minimum length.
		if errA := joint.minLength - lengthA; errA > 0.0 && mA > 0.0 {
			C := FloatClamp(errA-settings.LinearTolerance, 0.0, settings.MaxLinearCorrection)
			PA := Vec2MulScalar(C/mA, uA)
			cA.AddInPlace(Vec2MulScalar(joint.a.invMass, PA))
			aA += joint.a.invI * Vec2Cross(rA, PA)
			linearError = math.Max(linearError, errA)
		}
		if errB := joint.minLength - lengthB; errB > 0.0 && mB > 0.0 {
			C := FloatClamp(errB-settings.LinearTolerance, 0.0, settings.MaxLinearCorrection)
			PB := Vec2MulScalar(C/mB, uB)
			cB.AddInPlace(Vec2MulScalar(joint.b.invMass, PB))
			aB += joint.b.invI * Vec2Cross(rB, PB)
			linearError = math.Max(linearError, errB)
		}
	}

	data.Positions[joint.a.index].C = cA
	data.Positions[joint.a.index].A = aA
	data.Positions[joint.b.index].C = cB
	data.Positions[joint.b.index].A = aB

	return linearError < settings.LinearTolerance
}

func (joint *PulleyJoint) GetAnchorA() Vec2 {
	return joint.GetBodyA().GetWorldPoint(joint.localAnchorA)
}

func (joint *PulleyJoint) GetAnchorB() Vec2 {
	return joint.GetBodyB().GetWorldPoint(joint.localAnchorB)
}

func (joint *PulleyJoint) GetReactionForce(invDt float64) Vec2 {
	P := Vec2MulScalar(joint.impulse, joint.uB)
	return Vec2MulScalar(invDt, P)
}

func (joint *PulleyJoint) GetReactionTorque(invDt float64) float64 {
	return 0.0
}

func (joint *PulleyJoint) ShiftOrigin(newOrigin Vec2) {
	joint.pulleyAnchorA.SubInPlace(newOrigin)
	joint.pulleyAnchorB.SubInPlace(newOrigin)
}

func (joint *PulleyJoint) Dump() {
	logger := joint.world.logger
	if logger == nil {
		return
	}

	anchorA := joint.GetAnchorA()
	anchorB := joint.GetAnchorB()
	logger.Printf("  jd := MakePulleyJointDef()")
	logger.Printf("  jd.BodyA = bodies[%d]", joint.bodyA)
	logger.Printf("  jd.BodyB = bodies[%d]", joint.bodyB)
	logger.Printf("  jd.CollideConnected = %t", joint.collideConnected)
	logger.Printf("  jd.PulleyAnchorA = MakeVec2(%.15e, %.15e)", joint.pulleyAnchorA.X, joint.pulleyAnchorA.Y)
	logger.Printf("  jd.PulleyAnchorB = MakeVec2(%.15e, %.15e)", joint.pulleyAnchorB.X, joint.pulleyAnchorB.Y)
	logger.Printf("  jd.BodyAnchorA = MakeVec2(%.15e, %.15e)", anchorA.X, anchorA.Y)
	logger.Printf("  jd.BodyAnchorB = MakeVec2(%.15e, %.15e)", anchorB.X, anchorB.Y)
	logger.Printf("  jd.Ratio = %.15e", joint.ratio)
	logger.Printf("  jd.MinLength = %.15e", joint.minLength)
	logger.Printf("  joints[%d], _ = NewPulleyJoint(world, jd)", joint.index)
}
