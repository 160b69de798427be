package dyn4j

import (
	"math"
)

type VelocityConstraintPoint struct {
	RA             Vec2
	RB             Vec2
	NormalImpulse  float64
	TangentImpulse float64
	NormalMass     float64
	TangentMass    float64
	VelocityBias   float64
}

/// One entry per manifold. This is how a contact plugs into the
/// sequential impulse solver next to the joints.
type ContactConstraint struct {
	Points             [MaxManifoldPoints]VelocityConstraintPoint
	Normal             Vec2
	IndexA             int
	IndexB             int
	InvMassA, InvMassB float64
	InvIA, InvIB       float64
	Friction           float64
	Restitution        float64
	TangentSpeed       float64
	PointCount         int
	ContactIndex       int
}

type ContactPositionConstraint struct {
	LocalPoints                [MaxManifoldPoints]Vec2
	LocalNormal                Vec2
	LocalPoint                 Vec2
	Normal                     Vec2
	IndexA                     int
	IndexB                     int
	InvMassA, InvMassB         float64
	LocalCenterA, LocalCenterB Vec2
	InvIA, InvIB               float64
	Type                       uint8
	RadiusA, RadiusB           float64
	PointCount                 int
}

type ContactSolverDef struct {
	Step       TimeStep
	Contacts   []*Contact
	Positions  []Position
	Velocities []Velocity
}

type ContactSolver struct {
	step                TimeStep
	positions           []Position
	velocities          []Velocity
	positionConstraints []ContactPositionConstraint
	velocityConstraints []ContactConstraint
	contacts            []*Contact
}

// Two point manifolds whose normal mass matrix is worse conditioned than
// this are solved as a single point.
const maxConditionNumber = 1000.0

func MakeContactSolver(def *ContactSolverDef) ContactSolver {
	solver := ContactSolver{}

	count := len(def.Contacts)
	solver.step = def.Step
	solver.positionConstraints = make([]ContactPositionConstraint, count)
	solver.velocityConstraints = make([]ContactConstraint, count)
	solver.positions = def.Positions
	solver.velocities = def.Velocities
	solver.contacts = def.Contacts

	// Initialize position independent portions of the constraints.
	for i, contact := range solver.contacts {
		fixtureA := contact.GetFixtureAPtr()
		fixtureB := contact.GetFixtureBPtr()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()
		manifold := contact.GetManifold()

		pointCount := manifold.PointCount
		Assert(pointCount > 0)

		vc := &solver.velocityConstraints[i]
		vc.Friction = contact.friction
		vc.Restitution = contact.restitution
		vc.TangentSpeed = contact.tangentSpeed
		vc.IndexA = bodyA.islandIndex
		vc.IndexB = bodyB.islandIndex
		vc.InvMassA = bodyA.invMass
		vc.InvMassB = bodyB.invMass
		vc.InvIA = bodyA.invI
		vc.InvIB = bodyB.invI
		vc.ContactIndex = i
		vc.PointCount = pointCount

		pc := &solver.positionConstraints[i]
		pc.IndexA = bodyA.islandIndex
		pc.IndexB = bodyB.islandIndex
		pc.InvMassA = bodyA.invMass
		pc.InvMassB = bodyB.invMass
		pc.LocalCenterA = bodyA.sweep.LocalCenter
		pc.LocalCenterB = bodyB.sweep.LocalCenter
		pc.InvIA = bodyA.invI
		pc.InvIB = bodyB.invI
		pc.LocalNormal = manifold.LocalNormal
		pc.LocalPoint = manifold.LocalPoint
		pc.Normal = manifold.Normal
		pc.PointCount = pointCount
		pc.RadiusA = fixtureA.shape.GetRadius()
		pc.RadiusB = fixtureB.shape.GetRadius()
		pc.Type = manifold.Type

		for j := 0; j < pointCount; j++ {
			cp := &manifold.Points[j]
			vcp := &vc.Points[j]

			if solver.step.WarmStarting {
				vcp.NormalImpulse = solver.step.DtRatio * cp.NormalImpulse
				vcp.TangentImpulse = solver.step.DtRatio * cp.TangentImpulse
			} else {
				vcp.NormalImpulse = 0.0
				vcp.TangentImpulse = 0.0
			}
			cp.PositionImpulse = 0.0

			pc.LocalPoints[j] = cp.LocalPoint
		}
	}

	return solver
}

func positionTransform(c Vec2, a float64, localCenter Vec2) Transform {
	xf := MakeTransform()
	xf.Q.Set(a)
	xf.P = Vec2Sub(c, RotVec2Mul(xf.Q, localCenter))
	return xf
}

func relativeVelocity(vA Vec2, wA float64, rA Vec2, vB Vec2, wB float64, rB Vec2) Vec2 {
	return Vec2Sub(
		Vec2Add(vB, Vec2CrossScalarVector(wB, rB)),
		Vec2Add(vA, Vec2CrossScalarVector(wA, rA)),
	)
}

// Initialize position dependent portions of the velocity constraints.
func (solver *ContactSolver) InitializeVelocityConstraints() {
	threshold := solver.step.Settings.RestitutionVelocityThreshold

	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]
		pc := &solver.positionConstraints[i]
		manifold := solver.contacts[vc.ContactIndex].GetManifold()

		indexA := vc.IndexA
		indexB := vc.IndexB

		mA := vc.InvMassA
		mB := vc.InvMassB
		iA := vc.InvIA
		iB := vc.InvIB

		cA := solver.positions[indexA].C
		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W

		cB := solver.positions[indexB].C
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		xfA := positionTransform(cA, solver.positions[indexA].A, pc.LocalCenterA)
		xfB := positionTransform(cB, solver.positions[indexB].A, pc.LocalCenterB)

		var worldManifold WorldManifold
		worldManifold.Initialize(manifold, xfA, pc.RadiusA, xfB, pc.RadiusB)

		vc.Normal = worldManifold.Normal
		tangent := Vec2CrossVectorScalar(vc.Normal, 1.0)

		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]

			vcp.RA = Vec2Sub(worldManifold.Points[j], cA)
			vcp.RB = Vec2Sub(worldManifold.Points[j], cB)

			rnA := Vec2Cross(vcp.RA, vc.Normal)
			rnB := Vec2Cross(vcp.RB, vc.Normal)

			kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			if kNormal > 0.0 {
				vcp.NormalMass = 1.0 / kNormal
			} else {
				vcp.NormalMass = 0.0
			}

			rtA := Vec2Cross(vcp.RA, tangent)
			rtB := Vec2Cross(vcp.RB, tangent)

			kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB

			if kTangent > 0.0 {
				vcp.TangentMass = 1.0 / kTangent
			} else {
				vcp.TangentMass = 0.0
			}

			// Setup a velocity bias for restitution.
			vcp.VelocityBias = 0.0
			vRel := Vec2Dot(vc.Normal, relativeVelocity(vA, wA, vcp.RA, vB, wB, vcp.RB))
			if vRel < -threshold {
				vcp.VelocityBias = -vc.Restitution * vRel
			}
		}

		if vc.PointCount == 2 {
			vcp1 := &vc.Points[0]
			vcp2 := &vc.Points[1]

			rn1A := Vec2Cross(vcp1.RA, vc.Normal)
			rn1B := Vec2Cross(vcp1.RB, vc.Normal)
			rn2A := Vec2Cross(vcp2.RA, vc.Normal)
			rn2B := Vec2Cross(vcp2.RB, vc.Normal)

			k11 := mA + mB + iA*rn1A*rn1A + iB*rn1B*rn1B
			k22 := mA + mB + iA*rn2A*rn2A + iB*rn2B*rn2B
			k12 := mA + mB + iA*rn1A*rn2A + iB*rn1B*rn2B

			if k11*k11 >= maxConditionNumber*(k11*k22-k12*k12) {
				// The constraints are redundant, just use one.
				vc.PointCount = 1
			}
		}
	}
}

func (solver *ContactSolver) WarmStart() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]

		indexA := vc.IndexA
		indexB := vc.IndexB
		mA := vc.InvMassA
		iA := vc.InvIA
		mB := vc.InvMassB
		iB := vc.InvIB

		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		normal := vc.Normal
		tangent := Vec2CrossVectorScalar(normal, 1.0)

		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]
			P := Vec2Add(Vec2MulScalar(vcp.NormalImpulse, normal), Vec2MulScalar(vcp.TangentImpulse, tangent))
			wA -= iA * Vec2Cross(vcp.RA, P)
			vA.SubInPlace(Vec2MulScalar(mA, P))
			wB += iB * Vec2Cross(vcp.RB, P)
			vB.AddInPlace(Vec2MulScalar(mB, P))
		}

		solver.velocities[indexA].V = vA
		solver.velocities[indexA].W = wA
		solver.velocities[indexB].V = vB
		solver.velocities[indexB].W = wB
	}
}

func (solver *ContactSolver) SolveVelocityConstraints() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]

		indexA := vc.IndexA
		indexB := vc.IndexB
		mA := vc.InvMassA
		iA := vc.InvIA
		mB := vc.InvMassB
		iB := vc.InvIB
		pointCount := vc.PointCount

		vA := solver.velocities[indexA].V
		wA := solver.velocities[indexA].W
		vB := solver.velocities[indexB].V
		wB := solver.velocities[indexB].W

		normal := vc.Normal
		tangent := Vec2CrossVectorScalar(normal, 1.0)
		friction := vc.Friction

		Assert(pointCount == 1 || pointCount == 2)

		// Solve tangent constraints first because non-penetration is more important
		// than friction.
		for j := 0; j < pointCount; j++ {
			vcp := &vc.Points[j]

			// Relative velocity at contact
			dv := relativeVelocity(vA, wA, vcp.RA, vB, wB, vcp.RB)

			// Compute tangent force
			vt := Vec2Dot(dv, tangent) - vc.TangentSpeed
			lambda := vcp.TangentMass * (-vt)

			// Clamp the accumulated force
			maxFriction := friction * vcp.NormalImpulse
			newImpulse := FloatClamp(vcp.TangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.TangentImpulse
			vcp.TangentImpulse = newImpulse

			// Apply contact impulse
			P := Vec2MulScalar(lambda, tangent)

			vA.SubInPlace(Vec2MulScalar(mA, P))
			wA -= iA * Vec2Cross(vcp.RA, P)

			vB.AddInPlace(Vec2MulScalar(mB, P))
			wB += iB * Vec2Cross(vcp.RB, P)
		}

		// Solve normal constraints
		for j := 0; j < pointCount; j++ {
			vcp := &vc.Points[j]

			dv := relativeVelocity(vA, wA, vcp.RA, vB, wB, vcp.RB)

			// Compute normal impulse
			vn := Vec2Dot(dv, normal)
			lambda := -vcp.NormalMass * (vn - vcp.VelocityBias)

			// Clamp the accumulated impulse
			newImpulse := math.Max(vcp.NormalImpulse+lambda, 0.0)
			lambda = newImpulse - vcp.NormalImpulse
			vcp.NormalImpulse = newImpulse

			// Apply contact impulse
			P := Vec2MulScalar(lambda, normal)
			vA.SubInPlace(Vec2MulScalar(mA, P))
			wA -= iA * Vec2Cross(vcp.RA, P)

			vB.AddInPlace(Vec2MulScalar(mB, P))
			wB += iB * Vec2Cross(vcp.RB, P)
		}

		solver.velocities[indexA].V = vA
		solver.velocities[indexA].W = wA
		solver.velocities[indexB].V = vB
		solver.velocities[indexB].W = wB
	}
}

func (solver *ContactSolver) StoreImpulses() {
	for i := range solver.velocityConstraints {
		vc := &solver.velocityConstraints[i]
		manifold := solver.contacts[vc.ContactIndex].GetManifold()

		for j := 0; j < vc.PointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.Points[j].NormalImpulse
			manifold.Points[j].TangentImpulse = vc.Points[j].TangentImpulse
		}
	}
}

/// Impulses of one contact after the velocity phase, for PostSolve.
func (solver *ContactSolver) GetImpulse(i int) ContactImpulse {
	vc := &solver.velocityConstraints[i]
	impulse := ContactImpulse{Count: vc.PointCount}
	for j := 0; j < vc.PointCount; j++ {
		impulse.NormalImpulses[j] = vc.Points[j].NormalImpulse
		impulse.TangentImpulses[j] = vc.Points[j].TangentImpulse
	}
	return impulse
}

type PositionSolverManifold struct {
	Normal     Vec2
	Point      Vec2
	Separation float64
}

func (solvermanifold *PositionSolverManifold) Initialize(pc *ContactPositionConstraint, xfA Transform, xfB Transform, index int) {
	Assert(pc.PointCount > 0)

	switch pc.Type {
	case ManifoldType.E_circles:
		pointA := TransformVec2Mul(xfA, pc.LocalPoint)
		pointB := TransformVec2Mul(xfB, pc.LocalPoints[0])
		solvermanifold.Normal = Vec2Sub(pointB, pointA)
		if solvermanifold.Normal.Normalize() == 0.0 {
			// Coincident cores; keep the normal the manifold was built with.
			solvermanifold.Normal = pc.Normal
		}
		solvermanifold.Point = Vec2MulScalar(0.5, Vec2Add(pointA, pointB))
		solvermanifold.Separation = Vec2Dot(Vec2Sub(pointB, pointA), solvermanifold.Normal) - pc.RadiusA - pc.RadiusB

	case ManifoldType.E_faceA:
		solvermanifold.Normal = RotVec2Mul(xfA.Q, pc.LocalNormal)
		planePoint := TransformVec2Mul(xfA, pc.LocalPoint)

		clipPoint := TransformVec2Mul(xfB, pc.LocalPoints[index])
		solvermanifold.Separation = Vec2Dot(Vec2Sub(clipPoint, planePoint), solvermanifold.Normal) - pc.RadiusA - pc.RadiusB
		solvermanifold.Point = clipPoint

	case ManifoldType.E_faceB:
		solvermanifold.Normal = RotVec2Mul(xfB.Q, pc.LocalNormal)
		planePoint := TransformVec2Mul(xfB, pc.LocalPoint)

		clipPoint := TransformVec2Mul(xfA, pc.LocalPoints[index])
		solvermanifold.Separation = Vec2Dot(Vec2Sub(clipPoint, planePoint), solvermanifold.Normal) - pc.RadiusA - pc.RadiusB
		solvermanifold.Point = clipPoint

		// Ensure normal points from A to B
		solvermanifold.Normal = solvermanifold.Normal.Negate()
	}
}

// Sequential solver. Returns true once every manifold is within three
// times the linear tolerance.
func (solver *ContactSolver) SolvePositionConstraints() bool {
	settings := &solver.step.Settings
	minSeparation := 0.0

	for i := range solver.positionConstraints {
		pc := &solver.positionConstraints[i]
		manifold := solver.contacts[i].GetManifold()

		indexA := pc.IndexA
		indexB := pc.IndexB
		mA := pc.InvMassA
		iA := pc.InvIA
		mB := pc.InvMassB
		iB := pc.InvIB

		cA := solver.positions[indexA].C
		aA := solver.positions[indexA].A

		cB := solver.positions[indexB].C
		aB := solver.positions[indexB].A

		// Solve normal constraints
		for j := 0; j < pc.PointCount; j++ {
			xfA := positionTransform(cA, aA, pc.LocalCenterA)
			xfB := positionTransform(cB, aB, pc.LocalCenterB)

			var psm PositionSolverManifold
			psm.Initialize(pc, xfA, xfB, j)
			normal := psm.Normal

			point := psm.Point
			separation := psm.Separation

			rA := Vec2Sub(point, cA)
			rB := Vec2Sub(point, cB)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			C := FloatClamp(settings.Baumgarte*(separation+settings.LinearTolerance), -settings.MaxLinearCorrection, 0.0)

			// Compute the effective mass.
			rnA := Vec2Cross(rA, normal)
			rnB := Vec2Cross(rB, normal)
			K := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			// Compute normal impulse
			impulse := 0.0
			if K > 0.0 {
				impulse = -C / K
			}
			manifold.Points[j].PositionImpulse += impulse

			P := Vec2MulScalar(impulse, normal)

			cA.SubInPlace(Vec2MulScalar(mA, P))
			aA -= iA * Vec2Cross(rA, P)

			cB.AddInPlace(Vec2MulScalar(mB, P))
			aB += iB * Vec2Cross(rB, P)
		}

		solver.positions[indexA].C = cA
		solver.positions[indexA].A = aA

		solver.positions[indexB].C = cB
		solver.positions[indexB].A = aB
	}

	// We can't expect minSeparation >= -linearTolerance because we don't
	// push the separation above -linearTolerance.
	return minSeparation >= -3.0*settings.LinearTolerance
}
