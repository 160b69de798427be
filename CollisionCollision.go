package dyn4j

import (
	"math"
)

var ContactFeatureType = struct {
	E_vertex uint8
	E_face   uint8
}{
	E_vertex: 0,
	E_face:   1,
}

/// Contact ids to facilitate warm starting. An id names the pair of
/// topological features that produced a contact point: a feature on the
/// reference shape, a feature on the incident shape, and whether the
/// reference shape was the second fixture of the pair.
type ContactID struct {
	ReferenceIndex uint8 ///< Feature index on the reference shape
	IncidentIndex  uint8 ///< Feature index on the incident shape
	ReferenceType  uint8 ///< The feature type on the reference shape
	IncidentType   uint8 ///< The feature type on the incident shape
	Flip           bool  ///< Set when shape B is the reference shape
}

///< Used to quickly compare contact ids.
func (id ContactID) Key() uint32 {
	var key uint32 = 0
	key |= uint32(id.ReferenceIndex)
	key |= uint32(id.IncidentIndex) << 8
	key |= uint32(id.ReferenceType&0xF) << 16
	key |= uint32(id.IncidentType&0xF) << 20
	if id.Flip {
		key |= 1 << 24
	}
	return key
}

/// A manifold point is a contact point belonging to a contact
/// manifold. It holds details related to the geometry and dynamics
/// of the contact points.
/// The local point usage depends on the manifold type:
/// -E_circles: the local core point of shape B
/// -E_faceA: the incident core point on shape B
/// -E_faceB: the incident core point on shape A
/// Impulses are carried into the next step only when the id matches.
type ManifoldPoint struct {
	LocalPoint      Vec2      ///< usage depends on manifold type
	NormalImpulse   float64   ///< the non-penetration impulse
	TangentImpulse  float64   ///< the friction impulse
	PositionImpulse float64   ///< accumulated position correction, not persisted
	ID              ContactID ///< uniquely identifies a contact point between two shapes

	Point Vec2    ///< world point when the manifold was built
	Depth float64 ///< penetration depth when the manifold was built
}

var ManifoldType = struct {
	E_circles uint8
	E_faceA   uint8
	E_faceB   uint8
}{
	E_circles: 0,
	E_faceA:   1,
	E_faceB:   2,
}

/// A manifold for two touching convex shapes.
/// The local point usage depends on the manifold type:
/// -E_circles: the local core point of shape A
/// -E_faceA: the reference edge vertex on shape A
/// -E_faceB: the reference edge vertex on shape B
/// Similarly the local normal usage:
/// -E_circles: not used
/// -E_faceA: the edge normal on shape A
/// -E_faceB: the edge normal on shape B
/// We store contacts in this way so that position correction can
/// account for movement, which is critical for continuous physics.
type Manifold struct {
	Points         [MaxManifoldPoints]ManifoldPoint ///< the points of contact
	LocalNormal    Vec2                             ///< not used for E_circles
	LocalPoint     Vec2                             ///< usage depends on manifold type
	Type           uint8                            // ManifoldType
	PointCount     int                              ///< the number of manifold points
	ReferenceIndex int                              ///< reference feature index, -1 for E_circles
	Normal         Vec2                             ///< world normal from A to B when built
}

/// This is used to compute the current state of a contact manifold.
type WorldManifold struct {
	Normal      Vec2                       ///< world vector pointing from A to B
	Points      [MaxManifoldPoints]Vec2    ///< world contact point (point of intersection)
	Separations [MaxManifoldPoints]float64 ///< a negative value indicates overlap, in meters
}

var PointState = struct {
	NullState    uint8 ///< point does not exist
	AddState     uint8 ///< point was added in the update
	PersistState uint8 ///< point persisted across the update
	RemoveState  uint8 ///< point was removed in the update
}{
	NullState:    0,
	AddState:     1,
	PersistState: 2,
	RemoveState:  3,
}

/// Used for computing contact manifolds.
type ClipVertex struct {
	V  Vec2
	ID ContactID
}

/// A closed interval of projections onto an axis.
type Interval struct {
	Min, Max float64
}

func MakeInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

func (i Interval) Overlaps(other Interval) bool {
	return !(i.Min > other.Max || other.Min > i.Max)
}

/// Overlap length of the two intervals; zero when they do not overlap.
func (i Interval) GetOverlap(other Interval) float64 {
	if !i.Overlaps(other) {
		return 0.0
	}
	return math.Min(i.Max, other.Max) - math.Max(i.Min, other.Min)
}

func (i Interval) Contains(other Interval) bool {
	return other.Min > i.Min && other.Max < i.Max
}

/// An axis aligned bounding box.
type AABB struct {
	LowerBound Vec2 ///< the lower vertex
	UpperBound Vec2 ///< the upper vertex
}

func MakeAABB(lower, upper Vec2) AABB {
	return AABB{LowerBound: lower, UpperBound: upper}
}

/// Get the center of the AABB.
func (bb AABB) GetCenter() Vec2 {
	return Vec2MulScalar(0.5, Vec2Add(bb.LowerBound, bb.UpperBound))
}

/// Get the extents of the AABB (half-widths).
func (bb AABB) GetExtents() Vec2 {
	return Vec2MulScalar(0.5, Vec2Sub(bb.UpperBound, bb.LowerBound))
}

func (bb AABB) GetPerimeter() float64 {
	wx := bb.UpperBound.X - bb.LowerBound.X
	wy := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (wx + wy)
}

/// Combine an AABB into this one.
func (bb *AABB) CombineInPlace(aabb AABB) {
	bb.LowerBound = Vec2Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = Vec2Max(bb.UpperBound, aabb.UpperBound)
}

/// Grow the box by r on every side.
func (bb AABB) Expand(r float64) AABB {
	ext := MakeVec2(r, r)
	return AABB{
		LowerBound: Vec2Sub(bb.LowerBound, ext),
		UpperBound: Vec2Add(bb.UpperBound, ext),
	}
}

/// Does this aabb contain the provided AABB.
func (bb AABB) Contains(aabb AABB) bool {
	return bb.LowerBound.X <= aabb.LowerBound.X &&
		bb.LowerBound.Y <= aabb.LowerBound.Y &&
		aabb.UpperBound.X <= bb.UpperBound.X &&
		aabb.UpperBound.Y <= bb.UpperBound.Y
}

func (bb AABB) IsValid() bool {
	d := Vec2Sub(bb.UpperBound, bb.LowerBound)
	return d.X >= 0.0 && d.Y >= 0.0 && bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
}

func TestOverlapBoundingBoxes(a, b AABB) bool {
	d1 := Vec2Sub(b.LowerBound, a.UpperBound)
	d2 := Vec2Sub(a.LowerBound, b.UpperBound)

	if d1.X > 0.0 || d1.Y > 0.0 {
		return false
	}

	if d2.X > 0.0 || d2.Y > 0.0 {
		return false
	}

	return true
}

/// Evaluate the manifold with supplied transforms. This assumes
/// modest motion from the original state. The radii must come from
/// the shapes that generated the manifold.
func (wm *WorldManifold) Initialize(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case ManifoldType.E_circles:
		wm.Normal.Set(1.0, 0.0)
		pointA := TransformVec2Mul(xfA, manifold.LocalPoint)
		pointB := TransformVec2Mul(xfB, manifold.Points[0].LocalPoint)
		if Vec2DistanceSquared(pointA, pointB) > Epsilon*Epsilon {
			wm.Normal = Vec2Sub(pointB, pointA)
			wm.Normal.Normalize()
		} else if manifold.Normal.LengthSquared() > 0.0 {
			// Coincident cores; keep the normal the manifold was built with.
			wm.Normal = manifold.Normal
		}

		cA := Vec2Add(pointA, Vec2MulScalar(radiusA, wm.Normal))
		cB := Vec2Sub(pointB, Vec2MulScalar(radiusB, wm.Normal))
		wm.Points[0] = Vec2MulScalar(0.5, Vec2Add(cA, cB))
		wm.Separations[0] = Vec2Dot(Vec2Sub(cB, cA), wm.Normal)

	case ManifoldType.E_faceA:
		wm.Normal = RotVec2Mul(xfA.Q, manifold.LocalNormal)
		planePoint := TransformVec2Mul(xfA, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := TransformVec2Mul(xfB, manifold.Points[i].LocalPoint)
			cA := Vec2Add(clipPoint, Vec2MulScalar(radiusA-Vec2Dot(Vec2Sub(clipPoint, planePoint), wm.Normal), wm.Normal))
			cB := Vec2Sub(clipPoint, Vec2MulScalar(radiusB, wm.Normal))
			wm.Points[i] = Vec2MulScalar(0.5, Vec2Add(cA, cB))
			wm.Separations[i] = Vec2Dot(Vec2Sub(cB, cA), wm.Normal)
		}

	case ManifoldType.E_faceB:
		wm.Normal = RotVec2Mul(xfB.Q, manifold.LocalNormal)
		planePoint := TransformVec2Mul(xfB, manifold.LocalPoint)

		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := TransformVec2Mul(xfA, manifold.Points[i].LocalPoint)
			cB := Vec2Add(clipPoint, Vec2MulScalar(radiusB-Vec2Dot(Vec2Sub(clipPoint, planePoint), wm.Normal), wm.Normal))
			cA := Vec2Sub(clipPoint, Vec2MulScalar(radiusA, wm.Normal))
			wm.Points[i] = Vec2MulScalar(0.5, Vec2Add(cA, cB))
			wm.Separations[i] = Vec2Dot(Vec2Sub(cA, cB), wm.Normal)
		}

		// Ensure normal points from A to B.
		wm.Normal = wm.Normal.Negate()
	}
}

/// Compute the point states given two manifolds. The states pertain to the transition from manifold1
/// to manifold2. So state1 is either persist or remove while state2 is either add or persist.
func GetPointStates(state1 *[MaxManifoldPoints]uint8, state2 *[MaxManifoldPoints]uint8, manifold1 *Manifold, manifold2 *Manifold) {
	for i := 0; i < MaxManifoldPoints; i++ {
		state1[i] = PointState.NullState
		state2[i] = PointState.NullState
	}

	// Detect persists and removes.
	for i := 0; i < manifold1.PointCount; i++ {
		key := manifold1.Points[i].ID.Key()
		state1[i] = PointState.RemoveState

		for j := 0; j < manifold2.PointCount; j++ {
			if manifold2.Points[j].ID.Key() == key {
				state1[i] = PointState.PersistState
				break
			}
		}
	}

	// Detect persists and adds.
	for i := 0; i < manifold2.PointCount; i++ {
		key := manifold2.Points[i].ID.Key()
		state2[i] = PointState.AddState

		for j := 0; j < manifold1.PointCount; j++ {
			if manifold1.Points[j].ID.Key() == key {
				state2[i] = PointState.PersistState
				break
			}
		}
	}
}

// Sutherland-Hodgman clipping. Keeps the part of the segment behind the
// plane dot(normal, v) = offset. A point created by the clip is named
// after the reference vertex that bounds the side plane.
func ClipSegmentToLine(vOut []ClipVertex, vIn []ClipVertex, normal Vec2, offset float64, vertexIndex int) int {
	// Start with no output points
	numOut := 0

	// Calculate the distance of end points to the line
	distance0 := Vec2Dot(normal, vIn[0].V) - offset
	distance1 := Vec2Dot(normal, vIn[1].V) - offset

	// If the points are behind the plane
	if distance0 <= 0.0 {
		vOut[numOut] = vIn[0]
		numOut++
	}
	if distance1 <= 0.0 {
		vOut[numOut] = vIn[1]
		numOut++
	}

	// If the points are on different sides of the plane
	if distance0*distance1 < 0.0 {
		// Find intersection point of edge and plane
		interp := distance0 / (distance0 - distance1)
		vOut[numOut].V = Vec2Add(vIn[0].V, Vec2MulScalar(interp, Vec2Sub(vIn[1].V, vIn[0].V)))

		// Reference vertex is hitting the incident edge.
		vOut[numOut].ID = ContactID{
			ReferenceIndex: uint8(vertexIndex),
			IncidentIndex:  vIn[0].ID.IncidentIndex,
			ReferenceType:  ContactFeatureType.E_vertex,
			IncidentType:   ContactFeatureType.E_face,
			Flip:           vIn[0].ID.Flip,
		}
		numOut++
	}

	return numOut
}
