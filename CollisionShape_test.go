package dyn4j

import (
	"math"
	"testing"
)

func TestMakePolygonShapeValidation(t *testing.T) {
	nan := math.NaN()

	tests := []struct {
		name     string
		vertices []Vec2
		code     Code
	}{
		{
			name:     "too few vertices",
			vertices: []Vec2{MakeVec2(0, 0), MakeVec2(1, 0)},
			code:     CodeDegenerateShape,
		},
		{
			name:     "coincident vertices",
			vertices: []Vec2{MakeVec2(0, 0), MakeVec2(1, 0), MakeVec2(1, 0), MakeVec2(0, 1)},
			code:     CodeDegenerateShape,
		},
		{
			name:     "clockwise",
			vertices: []Vec2{MakeVec2(0, 0), MakeVec2(0, 1), MakeVec2(1, 0)},
			code:     CodeDegenerateShape,
		},
		{
			name:     "collinear",
			vertices: []Vec2{MakeVec2(0, 0), MakeVec2(1, 0), MakeVec2(2, 0)},
			code:     CodeDegenerateShape,
		},
		{
			name: "non convex",
			vertices: []Vec2{
				MakeVec2(0, 0), MakeVec2(2, 0), MakeVec2(1, 0.5), MakeVec2(2, 2), MakeVec2(0, 2),
			},
			code: CodeDegenerateShape,
		},
		{
			name:     "not finite",
			vertices: []Vec2{MakeVec2(0, 0), MakeVec2(nan, 0), MakeVec2(0, 1)},
			code:     CodeInvalidArgument,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MakePolygonShape(tc.vertices)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := GetCode(err); got != tc.code {
				t.Fatalf("code = %s, want %s (%v)", got, tc.code, err)
			}
			if GetParam(err) != "vertices" {
				t.Fatalf("param = %q, want vertices", GetParam(err))
			}
		})
	}
}

func TestMakeSegmentShapeRejectsCoincidentPoints(t *testing.T) {
	_, err := MakeSegmentShape(MakeVec2(1, 1), MakeVec2(1, 1))
	if !IsCode(err, CodeDegenerateShape) {
		t.Fatalf("expected DEGENERATE_SHAPE, got %v", err)
	}
	if GetParam(err) != "point2" {
		t.Fatalf("param = %q, want point2", GetParam(err))
	}

	seg, err := MakeSegmentShape(MakeVec2(-1, 0), MakeVec2(1, 0))
	if err != nil {
		t.Fatalf("make segment: %v", err)
	}
	if seg.GetLength() != 2.0 {
		t.Fatalf("length = %v, want 2", seg.GetLength())
	}
	if mass := seg.ComputeMass(1.0); mass.Mass != 0.0 {
		t.Fatalf("segment mass = %v, want 0", mass.Mass)
	}
}

func TestMakeCircleShapeValidation(t *testing.T) {
	for _, radius := range []float64{0.0, -1.0, math.Inf(1), math.NaN()} {
		if _, err := MakeCircleShape(radius); !IsCode(err, CodeInvalidArgument) {
			t.Fatalf("radius %v: expected INVALID_ARGUMENT, got %v", radius, err)
		}
	}
	if GetParam(func() error { _, err := MakeCircleShape(0); return err }()) != "radius" {
		t.Fatalf("expected the radius parameter to be named")
	}
}

func TestBoxMassProperties(t *testing.T) {
	box := mustBox(t, 1.0, 0.5)

	mass := box.ComputeMass(2.0)
	if math.Abs(mass.Mass-4.0) > 1e-12 {
		t.Fatalf("mass = %v, want 4", mass.Mass)
	}
	// I = m (w^2 + h^2) / 12 about the centroid.
	wantI := 4.0 * (4.0 + 1.0) / 12.0
	if math.Abs(mass.I-wantI) > 1e-9 {
		t.Fatalf("inertia = %v, want %v", mass.I, wantI)
	}
	if mass.Center.Length() > 1e-12 {
		t.Fatalf("center = %v, want origin", mass.Center)
	}
}

func TestCircleMassAndAABB(t *testing.T) {
	circle, err := MakeCircleShapeAt(MakeVec2(1, 0), 0.5)
	if err != nil {
		t.Fatalf("make circle: %v", err)
	}

	mass := circle.ComputeMass(1.0)
	if math.Abs(mass.Mass-math.Pi*0.25) > 1e-12 {
		t.Fatalf("mass = %v", mass.Mass)
	}

	aabb := circle.ComputeAABB(at(2, 3))
	if aabb.LowerBound != MakeVec2(2.5, 2.5) || aabb.UpperBound != MakeVec2(3.5, 3.5) {
		t.Fatalf("aabb = %+v", aabb)
	}
}

func TestPolygonContainsAndProject(t *testing.T) {
	box := mustBox(t, 1.0, 1.0)
	xf := at(2, 0)

	if !box.Contains(MakeVec2(2.5, 0.5), xf) {
		t.Fatalf("expected point inside")
	}
	if box.Contains(MakeVec2(3.5, 0), xf) {
		t.Fatalf("expected point outside")
	}

	interval := box.Project(MakeVec2(1, 0), xf)
	if interval.Min != 1.0 || interval.Max != 3.0 {
		t.Fatalf("projection = %+v, want [1, 3]", interval)
	}
}
