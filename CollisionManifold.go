package dyn4j

import (
	"math"
)

/// Build the contact manifold for a penetrating pair.
///
/// The farthest features of both shapes along the detection normal decide
/// the manifold kind. Two vertices give a circles manifold. A vertex against
/// an edge gives a face manifold on the edge's shape. Two edges are clipped:
/// the edge most perpendicular to the normal is the reference edge (ties go to
/// shape A), the other is clipped against its side planes, and points in front
/// of the reference face are dropped.
///
/// The returned manifold carries zero impulses; warm starting happens when the
/// owning contact merges it with the previous step's manifold.
func BuildManifold(det Detection, shapeA Shape, xfA Transform, shapeB Shape, xfB Transform) Manifold {
	var manifold Manifold
	manifold.ReferenceIndex = -1
	if !det.Penetrating {
		return manifold
	}

	n := det.Normal
	manifold.Normal = n

	featA := shapeA.GetFarthestFeature(n, xfA)
	featB := shapeB.GetFarthestFeature(n.Negate(), xfB)

	switch {
	case featA.IsVertex() && featB.IsVertex():
		manifold.Type = ManifoldType.E_circles
		manifold.LocalPoint = TransformVec2MulT(xfA, featA.V1)
		manifold.PointCount = 1
		manifold.Points[0].LocalPoint = TransformVec2MulT(xfB, featB.V1)
		manifold.Points[0].ID = ContactID{
			ReferenceType: ContactFeatureType.E_vertex,
			IncidentType:  ContactFeatureType.E_vertex,
		}

	case featA.IsVertex():
		vertexAgainstEdge(&manifold, featA.V1, xfA, featB, xfB, true)

	case featB.IsVertex():
		vertexAgainstEdge(&manifold, featB.V1, xfB, featA, xfA, false)

	default:
		if !clipEdges(&manifold, n, featA, xfA, featB, xfB) {
			return Manifold{ReferenceIndex: -1}
		}
	}

	finishManifold(&manifold, xfA, shapeA.GetRadius(), xfB, shapeB.GetRadius())
	return manifold
}

// vertexAgainstEdge builds a one point manifold. flip is set when the edge
// belongs to shape B.
func vertexAgainstEdge(manifold *Manifold, vertex Vec2, xfVertex Transform, edge Feature, xfEdge Transform, flip bool) {
	e := edge.GetEdge()
	t := Vec2Dot(Vec2Sub(vertex, edge.V1), e) / e.LengthSquared()

	if t < 0.0 || t > 1.0 {
		// The vertex is in an end region of the edge; collide with the
		// nearest endpoint instead.
		endpoint, index := edge.V1, edge.Index1
		if t > 1.0 {
			endpoint, index = edge.V2, edge.Index2
		}

		manifold.Type = ManifoldType.E_circles
		manifold.PointCount = 1
		if flip {
			manifold.LocalPoint = TransformVec2MulT(xfVertex, vertex)
			manifold.Points[0].LocalPoint = TransformVec2MulT(xfEdge, endpoint)
		} else {
			manifold.LocalPoint = TransformVec2MulT(xfEdge, endpoint)
			manifold.Points[0].LocalPoint = TransformVec2MulT(xfVertex, vertex)
		}
		manifold.Points[0].ID = ContactID{
			ReferenceIndex: uint8(index),
			ReferenceType:  ContactFeatureType.E_vertex,
			IncidentType:   ContactFeatureType.E_vertex,
			Flip:           flip,
		}
		return
	}

	normal := Vec2CrossVectorScalar(e, 1.0)
	normal.Normalize()

	if flip {
		manifold.Type = ManifoldType.E_faceB
	} else {
		manifold.Type = ManifoldType.E_faceA
	}
	manifold.ReferenceIndex = edge.Index
	manifold.LocalNormal = RotVec2MulT(xfEdge.Q, normal)
	manifold.LocalPoint = TransformVec2MulT(xfEdge, edge.V1)
	manifold.PointCount = 1
	manifold.Points[0].LocalPoint = TransformVec2MulT(xfVertex, vertex)
	manifold.Points[0].ID = ContactID{
		ReferenceIndex: uint8(edge.Index),
		ReferenceType:  ContactFeatureType.E_face,
		IncidentType:   ContactFeatureType.E_vertex,
		Flip:           flip,
	}
}

func clipEdges(manifold *Manifold, n Vec2, featA Feature, xfA Transform, featB Feature, xfB Transform) bool {
	eA := featA.GetEdge()
	eB := featB.GetEdge()

	ref, inc := featA, featB
	xfRef, xfInc := xfA, xfB
	flip := false

	// The reference edge is the one most perpendicular to the normal.
	if math.Abs(Vec2Dot(eB, n))/eB.Length() < math.Abs(Vec2Dot(eA, n))/eA.Length() {
		ref, inc = featB, featA
		xfRef, xfInc = xfB, xfA
		flip = true
	}

	tangent := ref.GetEdge()
	tangent.Normalize()
	refNormal := Vec2CrossVectorScalar(tangent, 1.0)

	incident := [2]ClipVertex{
		{
			V: inc.V1,
			ID: ContactID{
				ReferenceIndex: uint8(ref.Index),
				IncidentIndex:  uint8(inc.Index1),
				ReferenceType:  ContactFeatureType.E_face,
				IncidentType:   ContactFeatureType.E_vertex,
				Flip:           flip,
			},
		},
		{
			V: inc.V2,
			ID: ContactID{
				ReferenceIndex: uint8(ref.Index),
				IncidentIndex:  uint8(inc.Index2),
				ReferenceType:  ContactFeatureType.E_face,
				IncidentType:   ContactFeatureType.E_vertex,
				Flip:           flip,
			},
		},
	}

	// Side offsets
	sideOffset1 := -Vec2Dot(tangent, ref.V1)
	sideOffset2 := Vec2Dot(tangent, ref.V2)

	// Clip incident edge against extruded edge1 side edges.
	var clipPoints1, clipPoints2 [2]ClipVertex

	// Clip to box side 1
	np := ClipSegmentToLine(clipPoints1[:], incident[:], tangent.Negate(), sideOffset1, ref.Index1)
	if np < 2 {
		return false
	}

	// Clip to negative box side 1
	np = ClipSegmentToLine(clipPoints2[:], clipPoints1[:], tangent, sideOffset2, ref.Index2)
	if np < 2 {
		return false
	}

	if flip {
		manifold.Type = ManifoldType.E_faceB
	} else {
		manifold.Type = ManifoldType.E_faceA
	}
	manifold.ReferenceIndex = ref.Index
	manifold.LocalNormal = RotVec2MulT(xfRef.Q, refNormal)
	manifold.LocalPoint = TransformVec2MulT(xfRef, ref.V1)

	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		separation := Vec2Dot(refNormal, Vec2Sub(clipPoints2[i].V, ref.V1))
		if separation <= 0.0 {
			cp := &manifold.Points[pointCount]
			cp.LocalPoint = TransformVec2MulT(xfInc, clipPoints2[i].V)
			cp.ID = clipPoints2[i].ID
			pointCount++
		}
	}
	manifold.PointCount = pointCount
	return pointCount > 0
}

// finishManifold records the world points and depths and drops points whose
// separation is positive.
func finishManifold(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) {
	var wm WorldManifold
	wm.Initialize(manifold, xfA, radiusA, xfB, radiusB)

	pointCount := 0
	for i := 0; i < manifold.PointCount; i++ {
		if wm.Separations[i] > 0.0 {
			continue
		}
		manifold.Points[pointCount] = manifold.Points[i]
		manifold.Points[pointCount].Point = wm.Points[i]
		manifold.Points[pointCount].Depth = -wm.Separations[i]
		pointCount++
	}
	manifold.PointCount = pointCount
	manifold.Normal = wm.Normal
}

/// Carry accumulated impulses from the previous manifold into points whose
/// id is unchanged. Every other point starts from zero.
func (manifold *Manifold) WarmStartFrom(old *Manifold) {
	for i := 0; i < manifold.PointCount; i++ {
		mp2 := &manifold.Points[i]
		mp2.NormalImpulse = 0.0
		mp2.TangentImpulse = 0.0
		key := mp2.ID.Key()

		for j := 0; j < old.PointCount; j++ {
			mp1 := &old.Points[j]
			if mp1.ID.Key() == key {
				mp2.NormalImpulse = mp1.NormalImpulse
				mp2.TangentImpulse = mp1.TangentImpulse
				break
			}
		}
	}
}
