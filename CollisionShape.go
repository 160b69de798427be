package dyn4j

/// This holds the mass data computed for a shape.
type MassData struct {
	/// The mass of the shape, usually in kilograms.
	Mass float64

	/// The position of the shape's centroid relative to the shape's origin.
	Center Vec2

	/// The rotational inertia of the shape about the local origin.
	I float64
}

var ShapeType = struct {
	E_circle    uint8
	E_segment   uint8
	E_polygon   uint8
	E_typeCount uint8
}{
	E_circle:    0,
	E_segment:   1,
	E_polygon:   2,
	E_typeCount: 3,
}

var FeatureType = struct {
	E_vertex uint8
	E_edge   uint8
}{
	E_vertex: 0,
	E_edge:   1,
}

/// The part of a shape that is farthest along a direction. A vertex
/// feature uses Max and MaxIndex only; V1 is its core point. An edge
/// runs from V1 to V2 and its right hand normal faces the query
/// direction.
type Feature struct {
	Type     uint8
	Max      Vec2
	MaxIndex int

	V1, V2         Vec2
	Index1, Index2 int

	/// Edge index on the owning shape.
	Index int
}

func (f Feature) IsVertex() bool {
	return f.Type == FeatureType.E_vertex
}

func (f Feature) GetEdge() Vec2 {
	return Vec2Sub(f.V2, f.V1)
}

/// A shape is used for collision detection. Every method that takes a
/// transform works in world space; everything else is in the shape's
/// local frame.
type Shape interface {
	/// Get the type of this shape. You can use this to down cast to the concrete shape.
	GetType() uint8

	/// The skin radius around the core geometry. Zero for polygons and segments.
	GetRadius() float64

	/// Core vertices in local coordinates, used by the distance algorithm.
	GetVertices() []Vec2

	/// Largest distance from the local centroid to the shape's surface.
	GetExtent() float64

	/// Project the shape onto a unit axis.
	Project(axis Vec2, xf Transform) Interval

	/// The support point in the given direction.
	GetFarthestPoint(dir Vec2, xf Transform) Vec2

	/// The support feature in the given direction.
	GetFarthestFeature(dir Vec2, xf Transform) Feature

	/// Test a point for containment in this shape.
	Contains(p Vec2, xf Transform) bool

	/// Candidate separating axes, unit length. The foci of the other shape add
	/// point-to-closest-vertex axes.
	GetAxes(foci []Vec2, xf Transform) []Vec2

	/// Focal points of curved shapes; nil for shapes without any.
	GetFoci(xf Transform) []Vec2

	/// Given a transform, compute the associated axis aligned bounding box.
	ComputeAABB(xf Transform) AABB

	/// Compute the mass properties of this shape using its dimensions and density.
	/// The inertia tensor is computed about the local origin.
	ComputeMass(density float64) MassData
}

/// Support vertex index of a point set along a direction.
func supportIndex(vertices []Vec2, d Vec2) int {
	bestIndex := 0
	bestValue := Vec2Dot(vertices[0], d)
	for i := 1; i < len(vertices); i++ {
		value := Vec2Dot(vertices[i], d)
		if value > bestValue {
			bestIndex = i
			bestValue = value
		}
	}
	return bestIndex
}

/// Axis from the closest of the given world vertices to each focus.
func voronoiAxes(vertices []Vec2, foci []Vec2) []Vec2 {
	axes := make([]Vec2, 0, len(foci))
	for _, f := range foci {
		closest := vertices[0]
		best := Vec2DistanceSquared(closest, f)
		for _, v := range vertices[1:] {
			if d := Vec2DistanceSquared(v, f); d < best {
				best = d
				closest = v
			}
		}
		axis := Vec2Sub(f, closest)
		if axis.Normalize() > 0.0 {
			axes = append(axes, axis)
		}
	}
	return axes
}
