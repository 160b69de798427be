package dyn4j

import (
	"math"
)

/// A solid convex polygon. It is assumed that the interior of the polygon is to
/// the left of each edge. Edge i runs from vertex i to vertex i+1.
/// Polygons have a maximum number of vertices equal to MaxPolygonVertices.
type PolygonShape struct {
	centroid Vec2
	vertices []Vec2
	normals  []Vec2
	extent   float64
}

/// Create a convex polygon from counter-clockwise vertices. The input is
/// rejected rather than repaired: too few points, coincident points,
/// clockwise winding and non-convex outlines all fail.
func MakePolygonShape(vertices []Vec2) (*PolygonShape, error) {
	count := len(vertices)
	if count < 3 {
		return nil, degenerateShape("vertices", "a polygon must have at least 3 vertices")
	}
	if count > MaxPolygonVertices {
		return nil, invalidArgument("vertices", "too many polygon vertices")
	}

	for i := 0; i < count; i++ {
		if !vertices[i].IsValid() {
			return nil, invalidArgument("vertices", "polygon vertices must be finite")
		}
		for j := i + 1; j < count; j++ {
			if Vec2DistanceSquared(vertices[i], vertices[j]) <= Epsilon*Epsilon {
				return nil, degenerateShape("vertices", "a polygon cannot have coincident vertices")
			}
		}
	}

	area := 0.0
	for i := 0; i < count; i++ {
		area += Vec2Cross(vertices[i], vertices[(i+1)%count])
	}
	if area < 0.0 {
		return nil, degenerateShape("vertices", "polygon vertices must be in counter-clockwise order")
	}
	if area <= Epsilon {
		return nil, degenerateShape("vertices", "a polygon must have a positive area")
	}

	for i := 0; i < count; i++ {
		p0 := vertices[(i+count-1)%count]
		p1 := vertices[i]
		p2 := vertices[(i+1)%count]
		if Vec2Cross(Vec2Sub(p1, p0), Vec2Sub(p2, p1)) < 0.0 {
			return nil, degenerateShape("vertices", "a polygon must be convex")
		}
	}

	poly := &PolygonShape{
		vertices: make([]Vec2, count),
		normals:  make([]Vec2, count),
	}
	copy(poly.vertices, vertices)

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < count; i++ {
		edge := Vec2Sub(poly.vertices[(i+1)%count], poly.vertices[i])
		Assert(edge.LengthSquared() > Epsilon*Epsilon)
		poly.normals[i] = Vec2CrossVectorScalar(edge, 1.0)
		poly.normals[i].Normalize()
	}

	poly.centroid = ComputeCentroid(poly.vertices)
	for _, v := range poly.vertices {
		poly.extent = math.Max(poly.extent, Vec2Distance(v, poly.centroid))
	}

	return poly, nil
}

/// Build vertices for an axis-aligned box.
/// @param hx the half-width.
/// @param hy the half-height.
func MakeBoxShape(hx, hy float64) (*PolygonShape, error) {
	if !(hx > 0) || !(hy > 0) {
		return nil, invalidArgument("halfExtents", "box half extents must be positive")
	}
	return MakePolygonShape([]Vec2{
		MakeVec2(-hx, -hy),
		MakeVec2(hx, -hy),
		MakeVec2(hx, hy),
		MakeVec2(-hx, hy),
	})
}

/// Build vertices for an oriented box.
func MakeOrientedBoxShape(hx, hy float64, center Vec2, angle float64) (*PolygonShape, error) {
	if !(hx > 0) || !(hy > 0) {
		return nil, invalidArgument("halfExtents", "box half extents must be positive")
	}
	xf := MakeTransformByPositionAndAngle(center, angle)
	return MakePolygonShape([]Vec2{
		TransformVec2Mul(xf, MakeVec2(-hx, -hy)),
		TransformVec2Mul(xf, MakeVec2(hx, -hy)),
		TransformVec2Mul(xf, MakeVec2(hx, hy)),
		TransformVec2Mul(xf, MakeVec2(-hx, hy)),
	})
}

func ComputeCentroid(vs []Vec2) Vec2 {
	count := len(vs)
	Assert(count >= 3)

	c := Vec2{}
	area := 0.0

	// pRef is the reference point for forming triangles.
	// It's location doesn't change the result (except for rounding error).
	pRef := Vec2{}
	for i := 0; i < count; i++ {
		pRef.AddInPlace(vs[i])
	}
	pRef.ScaleInPlace(1.0 / float64(count))

	inv3 := 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		p1 := pRef
		p2 := vs[i]
		p3 := vs[(i+1)%count]

		triangleArea := 0.5 * Vec2Cross(Vec2Sub(p2, p1), Vec2Sub(p3, p1))
		area += triangleArea

		// Area weighted centroid
		c.AddInPlace(Vec2MulScalar(triangleArea*inv3, Vec2Add(Vec2Add(p1, p2), p3)))
	}

	Assert(area > Epsilon)
	c.ScaleInPlace(1.0 / area)
	return c
}

func (poly *PolygonShape) GetType() uint8 {
	return ShapeType.E_polygon
}

func (poly *PolygonShape) GetRadius() float64 {
	return 0.0
}

func (poly *PolygonShape) GetVertices() []Vec2 {
	return poly.vertices
}

func (poly *PolygonShape) GetNormals() []Vec2 {
	return poly.normals
}

func (poly *PolygonShape) GetCentroid() Vec2 {
	return poly.centroid
}

func (poly *PolygonShape) GetExtent() float64 {
	return poly.extent
}

func (poly *PolygonShape) Project(axis Vec2, xf Transform) Interval {
	min := Vec2Dot(axis, TransformVec2Mul(xf, poly.vertices[0]))
	max := min
	for i := 1; i < len(poly.vertices); i++ {
		v := Vec2Dot(axis, TransformVec2Mul(xf, poly.vertices[i]))
		if v < min {
			min = v
		} else if v > max {
			max = v
		}
	}
	return MakeInterval(min, max)
}

func (poly *PolygonShape) GetFarthestPoint(dir Vec2, xf Transform) Vec2 {
	i := supportIndex(poly.vertices, RotVec2MulT(xf.Q, dir))
	return TransformVec2Mul(xf, poly.vertices[i])
}

/// Of the two edges adjacent to the support vertex, returns the one whose
/// normal is best aligned with dir.
func (poly *PolygonShape) GetFarthestFeature(dir Vec2, xf Transform) Feature {
	count := len(poly.vertices)
	local := RotVec2MulT(xf.Q, dir)
	i := supportIndex(poly.vertices, local)
	prev := (i + count - 1) % count
	next := (i + 1) % count

	f := Feature{
		Type:     FeatureType.E_edge,
		Max:      TransformVec2Mul(xf, poly.vertices[i]),
		MaxIndex: i,
	}

	if Vec2Dot(poly.normals[i], local) >= Vec2Dot(poly.normals[prev], local) {
		f.Index = i
		f.Index1, f.Index2 = i, next
	} else {
		f.Index = prev
		f.Index1, f.Index2 = prev, i
	}
	f.V1 = TransformVec2Mul(xf, poly.vertices[f.Index1])
	f.V2 = TransformVec2Mul(xf, poly.vertices[f.Index2])

	return f
}

func (poly *PolygonShape) Contains(p Vec2, xf Transform) bool {
	pLocal := TransformVec2MulT(xf, p)

	for i := range poly.vertices {
		dot := Vec2Dot(poly.normals[i], Vec2Sub(pLocal, poly.vertices[i]))
		if dot > 0.0 {
			return false
		}
	}

	return true
}

func (poly *PolygonShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	axes := make([]Vec2, 0, len(poly.normals)+len(foci))
	for _, n := range poly.normals {
		axes = append(axes, RotVec2Mul(xf.Q, n))
	}
	if len(foci) == 0 {
		return axes
	}

	world := make([]Vec2, len(poly.vertices))
	for i, v := range poly.vertices {
		world[i] = TransformVec2Mul(xf, v)
	}
	return append(axes, voronoiAxes(world, foci)...)
}

func (poly *PolygonShape) GetFoci(xf Transform) []Vec2 {
	return nil
}

func (poly *PolygonShape) ComputeAABB(xf Transform) AABB {
	lower := TransformVec2Mul(xf, poly.vertices[0])
	upper := lower

	for i := 1; i < len(poly.vertices); i++ {
		v := TransformVec2Mul(xf, poly.vertices[i])
		lower = Vec2Min(lower, v)
		upper = Vec2Max(upper, v)
	}

	return AABB{LowerBound: lower, UpperBound: upper}
}

func (poly *PolygonShape) ComputeMass(density float64) MassData {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon.
	count := len(poly.vertices)
	center := Vec2{}
	area := 0.0
	I := 0.0

	// s is the reference point for forming triangles.
	s := Vec2{}
	for _, v := range poly.vertices {
		s.AddInPlace(v)
	}
	s.ScaleInPlace(1.0 / float64(count))

	const inv3 = 1.0 / 3.0

	for i := 0; i < count; i++ {
		// Triangle vertices.
		e1 := Vec2Sub(poly.vertices[i], s)
		e2 := Vec2Sub(poly.vertices[(i+1)%count], s)

		D := Vec2Cross(e1, e2)

		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid
		center.AddInPlace(Vec2MulScalar(triangleArea*inv3, Vec2Add(e1, e2)))

		intx2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y

		I += (0.25 * inv3 * D) * (intx2 + inty2)
	}

	var massData MassData

	// Total mass
	massData.Mass = density * area

	// Center of mass
	Assert(area > Epsilon)
	center.ScaleInPlace(1.0 / area)
	massData.Center = Vec2Add(center, s)

	// Inertia tensor relative to the local origin (point s).
	massData.I = density * I

	// Shift to center of mass then to original body origin.
	massData.I += massData.Mass * (Vec2Dot(massData.Center, massData.Center) - Vec2Dot(center, center))

	return massData
}
