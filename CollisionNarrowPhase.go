package dyn4j

import (
	"math"
)

/// The outcome of testing one shape pair. Normal always points from
/// shape A to shape B. When Penetrating is false, Distance and the
/// witness points describe the closest approach; otherwise Depth is the
/// overlap along Normal.
type Detection struct {
	Penetrating bool
	Normal      Vec2
	Depth       float64
	Distance    float64
	WitnessA    Vec2
	WitnessB    Vec2
}

/// Closest-feature query result between two shapes. Distance is signed;
/// a negative value means the shapes penetrate.
type Separation struct {
	Distance float64
	Normal   Vec2
	PointA   Vec2
	PointB   Vec2
}

func (d Detection) GetSeparation() Separation {
	if d.Penetrating {
		return Separation{Distance: -d.Depth, Normal: d.Normal, PointA: d.WitnessA, PointB: d.WitnessB}
	}
	return Separation{Distance: d.Distance, Normal: d.Normal, PointA: d.WitnessA, PointB: d.WitnessB}
}

/// Classify a shape pair as separated or penetrating.
///
/// Two polygons are tested with the separating axis theorem over their edge
/// normals. Any pair involving a curved shape or a segment first computes the
/// distance between the core geometry and only falls back to SAT, with
/// Voronoi axes added, when the cores themselves overlap.
func Detect(shapeA Shape, xfA Transform, shapeB Shape, xfB Transform) Detection {
	if shapeA.GetType() == ShapeType.E_polygon && shapeB.GetType() == ShapeType.E_polygon {
		return detectPolygons(shapeA, xfA, shapeB, xfB)
	}

	input := DistanceInput{
		ProxyA:     MakeDistanceProxy(shapeA),
		ProxyB:     MakeDistanceProxy(shapeB),
		TransformA: xfA,
		TransformB: xfB,
	}
	var cache SimplexCache
	var output DistanceOutput
	Distance(&output, &cache, &input)

	rA := shapeA.GetRadius()
	rB := shapeB.GetRadius()

	if output.Distance > 10.0*Epsilon {
		n := Vec2Sub(output.PointB, output.PointA)
		dist := n.Normalize()
		witnessA := Vec2Add(output.PointA, Vec2MulScalar(rA, n))
		witnessB := Vec2Sub(output.PointB, Vec2MulScalar(rB, n))

		if dist > rA+rB {
			return Detection{
				Normal:   n,
				Distance: dist - (rA + rB),
				WitnessA: witnessA,
				WitnessB: witnessB,
			}
		}

		// Cores are apart but the skins overlap.
		return Detection{
			Penetrating: true,
			Normal:      n,
			Depth:       rA + rB - dist,
			Distance:    dist - (rA + rB),
			WitnessA:    witnessA,
			WitnessB:    witnessB,
		}
	}

	// The cores overlap; search the full axis set.
	fociA := shapeA.GetFoci(xfA)
	fociB := shapeB.GetFoci(xfB)
	axesA := shapeA.GetAxes(fociB, xfA)
	axesB := shapeB.GetAxes(fociA, xfB)
	if len(axesA) == 0 && len(axesB) == 0 {
		// Concentric circles have no preferred direction.
		axesA = []Vec2{MakeVec2(1.0, 0.0)}
	}
	return satDetect(shapeA, xfA, shapeB, xfB, axesA, axesB)
}

func detectPolygons(shapeA Shape, xfA Transform, shapeB Shape, xfB Transform) Detection {
	det := satDetect(shapeA, xfA, shapeB, xfB, shapeA.GetAxes(nil, xfA), shapeB.GetAxes(nil, xfB))
	if det.Penetrating {
		return det
	}

	// SAT stopped on a separating axis; complete the result with the true
	// closest points.
	input := DistanceInput{
		ProxyA:     MakeDistanceProxy(shapeA),
		ProxyB:     MakeDistanceProxy(shapeB),
		TransformA: xfA,
		TransformB: xfB,
	}
	var cache SimplexCache
	var output DistanceOutput
	Distance(&output, &cache, &input)

	det.Distance = output.Distance
	det.WitnessA = output.PointA
	det.WitnessB = output.PointB
	n := Vec2Sub(output.PointB, output.PointA)
	if n.Normalize() > 10.0*Epsilon {
		det.Normal = n
	}
	return det
}

// satDetect tracks the axis of minimum overlap. Axes of shape A are tested
// first and a later axis only wins with a strictly smaller overlap, so ties
// go to shape A.
func satDetect(shapeA Shape, xfA Transform, shapeB Shape, xfB Transform, axesA, axesB []Vec2) Detection {
	centerA := worldCenter(shapeA, xfA)
	centerB := worldCenter(shapeB, xfB)
	d := Vec2Sub(centerB, centerA)

	best := MaxFloat
	var bestAxis Vec2

	test := func(axis Vec2) bool {
		projA := shapeA.Project(axis, xfA)
		projB := shapeB.Project(axis, xfB)
		if !projA.Overlaps(projB) {
			n := axis
			if Vec2Dot(d, n) < 0.0 {
				n = n.Negate()
			}
			bestAxis = n
			best = -math.Max(projA.Min-projB.Max, projB.Min-projA.Max)
			return false
		}

		// Segments project to zero width on their own normal, so a contained
		// projection may have no overlap of its own. The overlap must include
		// the distance needed to push the inner projection out through the
		// nearer end.
		overlap := projA.GetOverlap(projB)
		if projA.Contains(projB) || projB.Contains(projA) {
			dMin := projA.Min - projB.Min
			dMax := projA.Max - projB.Max
			if dMin < 0 {
				dMin = -dMin
			}
			if dMax < 0 {
				dMax = -dMax
			}
			if dMin < dMax {
				overlap += dMin
			} else {
				overlap += dMax
			}
		}

		if overlap < best {
			best = overlap
			bestAxis = axis
		}
		return true
	}

	for _, axis := range axesA {
		if !test(axis) {
			return Detection{Normal: bestAxis, Distance: -best}
		}
	}
	for _, axis := range axesB {
		if !test(axis) {
			return Detection{Normal: bestAxis, Distance: -best}
		}
	}

	n := bestAxis
	if Vec2Dot(d, n) < 0.0 {
		n = n.Negate()
	}

	// The deepest point of B lies inside A; A's surface is one depth
	// further along the normal.
	witnessB := shapeB.GetFarthestPoint(n.Negate(), xfB)
	witnessA := Vec2Add(witnessB, Vec2MulScalar(best, n))

	return Detection{
		Penetrating: true,
		Normal:      n,
		Depth:       best,
		Distance:    -best,
		WitnessA:    witnessA,
		WitnessB:    witnessB,
	}
}

func worldCenter(shape Shape, xf Transform) Vec2 {
	if poly, ok := shape.(*PolygonShape); ok {
		return TransformVec2Mul(xf, poly.GetCentroid())
	}
	vs := shape.GetVertices()
	c := Vec2{}
	for _, v := range vs {
		c.AddInPlace(v)
	}
	c.ScaleInPlace(1.0 / float64(len(vs)))
	return TransformVec2Mul(xf, c)
}

/// Closest-feature query between two placed shapes.
func ComputeSeparation(shapeA Shape, xfA Transform, shapeB Shape, xfB Transform) Separation {
	return Detect(shapeA, xfA, shapeB, xfB).GetSeparation()
}
