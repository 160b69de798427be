package dyn4j

import (
	"math"
)

/// A line segment between two distinct points. Segments have no area and
/// therefore no mass; they are meant for static geometry.
type SegmentShape struct {
	vertex1, vertex2 Vec2
	center           Vec2
	length           float64
}

func MakeSegmentShape(point1, point2 Vec2) (*SegmentShape, error) {
	if !point1.IsValid() || !point2.IsValid() {
		return nil, invalidArgument("vertices", "segment vertices must be finite")
	}
	if Vec2DistanceSquared(point1, point2) <= Epsilon*Epsilon {
		return nil, degenerateShape("point2", "a line segment must have two different vertices")
	}
	return &SegmentShape{
		vertex1: point1,
		vertex2: point2,
		center:  Vec2MulScalar(0.5, Vec2Add(point1, point2)),
		length:  Vec2Distance(point1, point2),
	}, nil
}

func (seg *SegmentShape) GetType() uint8 {
	return ShapeType.E_segment
}

func (seg *SegmentShape) GetRadius() float64 {
	return 0.0
}

func (seg *SegmentShape) GetVertices() []Vec2 {
	return []Vec2{seg.vertex1, seg.vertex2}
}

func (seg *SegmentShape) GetLength() float64 {
	return seg.length
}

func (seg *SegmentShape) GetExtent() float64 {
	return 0.5 * seg.length
}

func (seg *SegmentShape) Project(axis Vec2, xf Transform) Interval {
	v1 := Vec2Dot(axis, TransformVec2Mul(xf, seg.vertex1))
	v2 := Vec2Dot(axis, TransformVec2Mul(xf, seg.vertex2))
	if v1 <= v2 {
		return MakeInterval(v1, v2)
	}
	return MakeInterval(v2, v1)
}

func (seg *SegmentShape) GetFarthestPoint(dir Vec2, xf Transform) Vec2 {
	p1 := TransformVec2Mul(xf, seg.vertex1)
	p2 := TransformVec2Mul(xf, seg.vertex2)
	if Vec2Dot(dir, p1) >= Vec2Dot(dir, p2) {
		return p1
	}
	return p2
}

/// The farthest feature of a segment is always the segment itself, ordered
/// so that its right hand normal faces dir.
func (seg *SegmentShape) GetFarthestFeature(dir Vec2, xf Transform) Feature {
	p1 := TransformVec2Mul(xf, seg.vertex1)
	p2 := TransformVec2Mul(xf, seg.vertex2)

	f := Feature{Type: FeatureType.E_edge}
	if Vec2Dot(dir, p1) >= Vec2Dot(dir, p2) {
		f.Max, f.MaxIndex = p1, 0
	} else {
		f.Max, f.MaxIndex = p2, 1
	}

	if Vec2Dot(Vec2CrossVectorScalar(Vec2Sub(p2, p1), 1.0), dir) >= 0.0 {
		f.V1, f.V2 = p1, p2
		f.Index1, f.Index2 = 0, 1
		f.Index = 0
	} else {
		f.V1, f.V2 = p2, p1
		f.Index1, f.Index2 = 1, 0
		f.Index = 1
	}
	return f
}

/// A point is contained when it lies on the segment.
func (seg *SegmentShape) Contains(p Vec2, xf Transform) bool {
	local := TransformVec2MulT(xf, p)
	e := Vec2Sub(seg.vertex2, seg.vertex1)
	d := Vec2Sub(local, seg.vertex1)
	if math.Abs(Vec2Cross(e, d)) > Epsilon*seg.length {
		return false
	}
	t := Vec2Dot(d, e) / e.LengthSquared()
	return t >= 0.0 && t <= 1.0
}

/// The segment normal and direction, plus one axis per focus.
func (seg *SegmentShape) GetAxes(foci []Vec2, xf Transform) []Vec2 {
	p1 := TransformVec2Mul(xf, seg.vertex1)
	p2 := TransformVec2Mul(xf, seg.vertex2)
	line := Vec2Sub(p2, p1).Unit()

	axes := make([]Vec2, 0, 2+len(foci))
	axes = append(axes, line.Skew(), line)
	return append(axes, voronoiAxes([]Vec2{p1, p2}, foci)...)
}

func (seg *SegmentShape) GetFoci(xf Transform) []Vec2 {
	return nil
}

func (seg *SegmentShape) ComputeAABB(xf Transform) AABB {
	v1 := TransformVec2Mul(xf, seg.vertex1)
	v2 := TransformVec2Mul(xf, seg.vertex2)
	return AABB{LowerBound: Vec2Min(v1, v2), UpperBound: Vec2Max(v1, v2)}
}

func (seg *SegmentShape) ComputeMass(density float64) MassData {
	return MassData{Mass: 0.0, Center: seg.center, I: 0.0}
}
