package dyn4j

import (
	"math"
)

/// A solid circle shape
type CircleShape struct {
	/// Position
	p      Vec2
	radius float64
}

func MakeCircleShape(radius float64) (*CircleShape, error) {
	return MakeCircleShapeAt(Vec2{}, radius)
}

/// A circle whose center is offset from the body origin.
func MakeCircleShapeAt(center Vec2, radius float64) (*CircleShape, error) {
	if !(radius > 0) || !IsValid(radius) {
		return nil, invalidArgument("radius", "a circle radius must be positive")
	}
	if !center.IsValid() {
		return nil, invalidArgument("center", "a circle center must be finite")
	}
	return &CircleShape{p: center, radius: radius}, nil
}

func (shape *CircleShape) GetType() uint8 {
	return ShapeType.E_circle
}

func (shape *CircleShape) GetRadius() float64 {
	return shape.radius
}

func (shape *CircleShape) GetCenter() Vec2 {
	return shape.p
}

func (shape *CircleShape) GetVertices() []Vec2 {
	return []Vec2{shape.p}
}

func (shape *CircleShape) GetExtent() float64 {
	return shape.radius
}

func (shape *CircleShape) Project(axis Vec2, xf Transform) Interval {
	c := Vec2Dot(axis, TransformVec2Mul(xf, shape.p))
	return MakeInterval(c-shape.radius, c+shape.radius)
}

func (shape *CircleShape) GetFarthestPoint(dir Vec2, xf Transform) Vec2 {
	center := TransformVec2Mul(xf, shape.p)
	return Vec2Add(center, Vec2MulScalar(shape.radius, dir.Unit()))
}

/// A circle's farthest feature is always a vertex.
func (shape *CircleShape) GetFarthestFeature(dir Vec2, xf Transform) Feature {
	center := TransformVec2Mul(xf, shape.p)
	return Feature{
		Type: FeatureType.E_vertex,
		Max:  Vec2Add(center, Vec2MulScalar(shape.radius, dir.Unit())),
		V1:   center,
	}
}

func (shape *CircleShape) Contains(p Vec2, xf Transform) bool {
	center := TransformVec2Mul(xf, shape.p)
	d := Vec2Sub(p, center)
	return Vec2Dot(d, d) <= shape.radius*shape.radius
}

/// A circle has no axes of its own; it contributes one axis toward each focus.
func (shape *CircleShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	center := TransformVec2Mul(xf, shape.p)
	return voronoiAxes([]Vec2{center}, foci)
}

func (shape *CircleShape) GetFoci(xf Transform) []Vec2 {
	return []Vec2{TransformVec2Mul(xf, shape.p)}
}

func (shape *CircleShape) ComputeAABB(xf Transform) AABB {
	p := TransformVec2Mul(xf, shape.p)
	return AABB{
		LowerBound: MakeVec2(p.X-shape.radius, p.Y-shape.radius),
		UpperBound: MakeVec2(p.X+shape.radius, p.Y+shape.radius),
	}
}

func (shape *CircleShape) ComputeMass(density float64) MassData {
	mass := density * math.Pi * shape.radius * shape.radius
	return MassData{
		Mass:   mass,
		Center: shape.p,
		// inertia about the local origin
		I: mass * (0.5*shape.radius*shape.radius + Vec2Dot(shape.p, shape.p)),
	}
}
