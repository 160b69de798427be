package dyn4j

// GJK using Voronoi regions (Christer Ericson) and Barycentric coordinates.

/// A distance proxy is used by the GJK algorithm.
/// It encapsulates the core geometry of any shape: a single point for a
/// circle, two points for a segment, the hull for a polygon.
type DistanceProxy struct {
	Vertices []Vec2
	Radius   float64
}

func MakeDistanceProxy(shape Shape) DistanceProxy {
	return DistanceProxy{
		Vertices: shape.GetVertices(),
		Radius:   shape.GetRadius(),
	}
}

func (p DistanceProxy) GetVertexCount() int {
	return len(p.Vertices)
}

func (p DistanceProxy) GetVertex(index int) Vec2 {
	Assert(0 <= index && index < len(p.Vertices))
	return p.Vertices[index]
}

func (p DistanceProxy) GetSupport(d Vec2) int {
	return supportIndex(p.Vertices, d)
}

/// Used to warm start Distance.
/// Set count to zero on first call.
type SimplexCache struct {
	Metric float64 ///< length or area
	Count  int
	IndexA [3]int ///< vertices on shape A
	IndexB [3]int ///< vertices on shape B
}

/// Input for Distance.
/// You have the option to use the shape radii in the computation.
type DistanceInput struct {
	ProxyA     DistanceProxy
	ProxyB     DistanceProxy
	TransformA Transform
	TransformB Transform
	UseRadii   bool
}

/// Output for Distance.
type DistanceOutput struct {
	PointA     Vec2 ///< closest point on shapeA
	PointB     Vec2 ///< closest point on shapeB
	Distance   float64
	Iterations int ///< number of GJK iterations used
}

type simplexVertex struct {
	WA     Vec2    // support point in proxyA
	WB     Vec2    // support point in proxyB
	W      Vec2    // wB - wA
	A      float64 // barycentric coordinate for closest point
	IndexA int     // wA index
	IndexB int     // wB index
}

type simplex struct {
	vs    [3]simplexVertex
	count int
}

func (s *simplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, transformA Transform, proxyB *DistanceProxy, transformB Transform) {
	Assert(cache.Count <= 3)

	// Copy data from cache.
	s.count = cache.Count
	for i := 0; i < s.count; i++ {
		v := &s.vs[i]
		v.IndexA = cache.IndexA[i]
		v.IndexB = cache.IndexB[i]
		v.WA = TransformVec2Mul(transformA, proxyA.GetVertex(v.IndexA))
		v.WB = TransformVec2Mul(transformB, proxyB.GetVertex(v.IndexB))
		v.W = Vec2Sub(v.WB, v.WA)
		v.A = 0.0
	}

	// Compute the new simplex metric, if it is substantially different than
	// old metric then flush the simplex.
	if s.count > 1 {
		metric1 := cache.Metric
		metric2 := s.getMetric()
		if metric2 < 0.5*metric1 || 2.0*metric1 < metric2 || metric2 < Epsilon {
			s.count = 0
		}
	}

	// If the cache is empty or invalid ...
	if s.count == 0 {
		v := &s.vs[0]
		v.IndexA = 0
		v.IndexB = 0
		v.WA = TransformVec2Mul(transformA, proxyA.GetVertex(0))
		v.WB = TransformVec2Mul(transformB, proxyB.GetVertex(0))
		v.W = Vec2Sub(v.WB, v.WA)
		v.A = 1.0
		s.count = 1
	}
}

func (s *simplex) writeCache(cache *SimplexCache) {
	cache.Metric = s.getMetric()
	cache.Count = s.count
	for i := 0; i < s.count; i++ {
		cache.IndexA[i] = s.vs[i].IndexA
		cache.IndexB[i] = s.vs[i].IndexB
	}
}

func (s *simplex) getSearchDirection() Vec2 {
	switch s.count {
	case 1:
		return s.vs[0].W.Negate()
	case 2:
		e12 := Vec2Sub(s.vs[1].W, s.vs[0].W)
		sgn := Vec2Cross(e12, s.vs[0].W.Negate())
		if sgn > 0.0 {
			// Origin is left of e12.
			return Vec2CrossScalarVector(1.0, e12)
		}
		// Origin is right of e12.
		return Vec2CrossVectorScalar(e12, 1.0)
	default:
		Assert(false)
		return Vec2{}
	}
}

func (s *simplex) getWitnessPoints() (pA, pB Vec2) {
	switch s.count {
	case 1:
		return s.vs[0].WA, s.vs[0].WB
	case 2:
		pA = Vec2Add(Vec2MulScalar(s.vs[0].A, s.vs[0].WA), Vec2MulScalar(s.vs[1].A, s.vs[1].WA))
		pB = Vec2Add(Vec2MulScalar(s.vs[0].A, s.vs[0].WB), Vec2MulScalar(s.vs[1].A, s.vs[1].WB))
		return pA, pB
	case 3:
		pA = Vec2Add(
			Vec2Add(Vec2MulScalar(s.vs[0].A, s.vs[0].WA), Vec2MulScalar(s.vs[1].A, s.vs[1].WA)),
			Vec2MulScalar(s.vs[2].A, s.vs[2].WA),
		)
		return pA, pA
	default:
		Assert(false)
		return Vec2{}, Vec2{}
	}
}

func (s *simplex) getMetric() float64 {
	switch s.count {
	case 1:
		return 0.0
	case 2:
		return Vec2Distance(s.vs[0].W, s.vs[1].W)
	case 3:
		return Vec2Cross(Vec2Sub(s.vs[1].W, s.vs[0].W), Vec2Sub(s.vs[2].W, s.vs[0].W))
	default:
		Assert(false)
		return 0.0
	}
}

// Solve a line segment using barycentric coordinates.
func (s *simplex) solve2() {
	w1 := s.vs[0].W
	w2 := s.vs[1].W
	e12 := Vec2Sub(w2, w1)

	// w1 region
	d12_2 := -Vec2Dot(w1, e12)
	if d12_2 <= 0.0 {
		// a2 <= 0, so we clamp it to 0
		s.vs[0].A = 1.0
		s.count = 1
		return
	}

	// w2 region
	d12_1 := Vec2Dot(w2, e12)
	if d12_1 <= 0.0 {
		// a1 <= 0, so we clamp it to 0
		s.vs[1].A = 1.0
		s.count = 1
		s.vs[0] = s.vs[1]
		return
	}

	// Must be in e12 region.
	inv_d12 := 1.0 / (d12_1 + d12_2)
	s.vs[0].A = d12_1 * inv_d12
	s.vs[1].A = d12_2 * inv_d12
	s.count = 2
}

// Possible regions:
// - points[2]
// - edge points[0]-points[2]
// - edge points[1]-points[2]
// - inside the triangle
func (s *simplex) solve3() {
	w1 := s.vs[0].W
	w2 := s.vs[1].W
	w3 := s.vs[2].W

	// Edge12
	e12 := Vec2Sub(w2, w1)
	d12_1 := Vec2Dot(w2, e12)
	d12_2 := -Vec2Dot(w1, e12)

	// Edge13
	e13 := Vec2Sub(w3, w1)
	d13_1 := Vec2Dot(w3, e13)
	d13_2 := -Vec2Dot(w1, e13)

	// Edge23
	e23 := Vec2Sub(w3, w2)
	d23_1 := Vec2Dot(w3, e23)
	d23_2 := -Vec2Dot(w2, e23)

	// Triangle123
	n123 := Vec2Cross(e12, e13)
	d123_1 := n123 * Vec2Cross(w2, w3)
	d123_2 := n123 * Vec2Cross(w3, w1)
	d123_3 := n123 * Vec2Cross(w1, w2)

	// w1 region
	if d12_2 <= 0.0 && d13_2 <= 0.0 {
		s.vs[0].A = 1.0
		s.count = 1
		return
	}

	// e12
	if d12_1 > 0.0 && d12_2 > 0.0 && d123_3 <= 0.0 {
		inv_d12 := 1.0 / (d12_1 + d12_2)
		s.vs[0].A = d12_1 * inv_d12
		s.vs[1].A = d12_2 * inv_d12
		s.count = 2
		return
	}

	// e13
	if d13_1 > 0.0 && d13_2 > 0.0 && d123_2 <= 0.0 {
		inv_d13 := 1.0 / (d13_1 + d13_2)
		s.vs[0].A = d13_1 * inv_d13
		s.vs[2].A = d13_2 * inv_d13
		s.count = 2
		s.vs[1] = s.vs[2]
		return
	}

	// w2 region
	if d12_1 <= 0.0 && d23_2 <= 0.0 {
		s.vs[1].A = 1.0
		s.count = 1
		s.vs[0] = s.vs[1]
		return
	}

	// w3 region
	if d13_1 <= 0.0 && d23_1 <= 0.0 {
		s.vs[2].A = 1.0
		s.count = 1
		s.vs[0] = s.vs[2]
		return
	}

	// e23
	if d23_1 > 0.0 && d23_2 > 0.0 && d123_1 <= 0.0 {
		inv_d23 := 1.0 / (d23_1 + d23_2)
		s.vs[1].A = d23_1 * inv_d23
		s.vs[2].A = d23_2 * inv_d23
		s.count = 2
		s.vs[0] = s.vs[2]
		return
	}

	// Must be in triangle123
	inv_d123 := 1.0 / (d123_1 + d123_2 + d123_3)
	s.vs[0].A = d123_1 * inv_d123
	s.vs[1].A = d123_2 * inv_d123
	s.vs[2].A = d123_3 * inv_d123
	s.count = 3
}

const maxGJKIterations = 20

/// Compute the closest points between two shapes. Supports any combination of:
/// CircleShape, PolygonShape, SegmentShape. The simplex cache is input/output.
/// On the first call set SimplexCache.Count to zero.
/// A zero distance means the core geometry overlaps.
func Distance(output *DistanceOutput, cache *SimplexCache, input *DistanceInput) {
	proxyA := &input.ProxyA
	proxyB := &input.ProxyB
	transformA := input.TransformA
	transformB := input.TransformB

	// Initialize the simplex.
	var s simplex
	s.readCache(cache, proxyA, transformA, proxyB, transformB)

	// These store the vertices of the last simplex so that we
	// can check for duplicates and prevent cycling.
	var saveA, saveB [3]int

	// Main iteration loop.
	iter := 0
	for iter < maxGJKIterations {
		// Copy simplex so we can identify duplicates.
		saveCount := s.count
		for i := 0; i < saveCount; i++ {
			saveA[i] = s.vs[i].IndexA
			saveB[i] = s.vs[i].IndexB
		}

		switch s.count {
		case 1:
		case 2:
			s.solve2()
		case 3:
			s.solve3()
		default:
			Assert(false)
		}

		// If we have 3 points, then the origin is in the corresponding triangle.
		if s.count == 3 {
			break
		}

		d := s.getSearchDirection()

		// Ensure the search direction is numerically fit.
		if d.LengthSquared() < Epsilon*Epsilon {
			// The origin is probably contained by a line segment
			// or triangle. Thus the shapes are overlapped.
			break
		}

		// Compute a tentative new simplex vertex using support points.
		vertex := &s.vs[s.count]
		vertex.IndexA = proxyA.GetSupport(RotVec2MulT(transformA.Q, d.Negate()))
		vertex.WA = TransformVec2Mul(transformA, proxyA.GetVertex(vertex.IndexA))
		vertex.IndexB = proxyB.GetSupport(RotVec2MulT(transformB.Q, d))
		vertex.WB = TransformVec2Mul(transformB, proxyB.GetVertex(vertex.IndexB))
		vertex.W = Vec2Sub(vertex.WB, vertex.WA)

		// Iteration count is equated to the number of support point calls.
		iter++

		// Check for duplicate support points. This is the main termination criteria.
		duplicate := false
		for i := 0; i < saveCount; i++ {
			if vertex.IndexA == saveA[i] && vertex.IndexB == saveB[i] {
				duplicate = true
				break
			}
		}

		// If we found a duplicate support point we must exit to avoid cycling.
		if duplicate {
			break
		}

		// New vertex is ok and needed.
		s.count++
	}

	// Prepare output.
	output.PointA, output.PointB = s.getWitnessPoints()
	output.Distance = Vec2Distance(output.PointA, output.PointB)
	output.Iterations = iter

	// Cache the simplex.
	s.writeCache(cache)

	// Apply radii if requested.
	if input.UseRadii {
		rA := proxyA.Radius
		rB := proxyB.Radius

		if output.Distance > rA+rB && output.Distance > Epsilon {
			// Shapes are still not overlapped.
			// Move the witness points to the outer surface.
			output.Distance -= rA + rB
			normal := Vec2Sub(output.PointB, output.PointA)
			normal.Normalize()
			output.PointA.AddInPlace(Vec2MulScalar(rA, normal))
			output.PointB.SubInPlace(Vec2MulScalar(rB, normal))
		} else {
			// Shapes are overlapped when radii are considered.
			// Move the witness points to the middle.
			p := Vec2MulScalar(0.5, Vec2Add(output.PointA, output.PointB))
			output.PointA = p
			output.PointB = p
			output.Distance = 0.0
		}
	}
}
