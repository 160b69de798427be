package dyn4j

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

/// A 2D column vector.
type Vec2 struct {
	X, Y float64
}

func MakeVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec2(x, y float64) *Vec2 {
	return &Vec2{X: x, Y: y}
}

/// Convert to the mathgl representation.
func (v Vec2) ToMgl() mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

func Vec2FromMgl(v mgl64.Vec2) Vec2 {
	return Vec2{X: v[0], Y: v[1]}
}

func (v *Vec2) SetZero() {
	v.X = 0.0
	v.Y = 0.0
}

func (v *Vec2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

func (v Vec2) Negate() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

func (v *Vec2) AddInPlace(other Vec2) {
	v.X += other.X
	v.Y += other.Y
}

func (v *Vec2) SubInPlace(other Vec2) {
	v.X -= other.X
	v.Y -= other.Y
}

func (v *Vec2) ScaleInPlace(a float64) {
	v.X *= a
	v.Y *= a
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

/// Get the length squared. For performance, use this instead of
/// Vec2.Length (if possible).
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

/// Convert this vector into a unit vector. Returns the length.
func (v *Vec2) Normalize() float64 {
	length := v.Length()
	if length < Epsilon {
		return 0.0
	}

	invLength := 1.0 / length
	v.X *= invLength
	v.Y *= invLength

	return length
}

/// Returns a normalized copy; the zero vector stays zero.
func (v Vec2) Unit() Vec2 {
	u := v
	u.Normalize()
	return u
}

func (v Vec2) IsValid() bool {
	return IsValid(v.X) && IsValid(v.Y)
}

/// Get the skew vector such that dot(skew_vec, other) == cross(vec, other)
func (v Vec2) Skew() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

/// A 2-by-2 matrix. Stored in column-major order.
type Mat22 struct {
	Ex, Ey Vec2
}

func MakeMat22FromColumns(c1, c2 Vec2) Mat22 {
	return Mat22{Ex: c1, Ey: c2}
}

func MakeMat22FromScalars(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: Vec2{X: a11, Y: a21},
		Ey: Vec2{X: a12, Y: a22},
	}
}

func (m *Mat22) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
}

func (m Mat22) toMgl() mgl64.Mat2 {
	return mgl64.Mat2{m.Ex.X, m.Ex.Y, m.Ey.X, m.Ey.Y}
}

func mat22FromMgl(m mgl64.Mat2) Mat22 {
	return Mat22{
		Ex: Vec2{X: m[0], Y: m[1]},
		Ey: Vec2{X: m[2], Y: m[3]},
	}
}

/// Singular matrices invert to zero.
func (m Mat22) GetInverse() Mat22 {
	return mat22FromMgl(m.toMgl().Inv())
}

/// Solve A * x = b, where b is a column vector. This is more efficient
/// than computing the inverse in one-shot cases.
func (m Mat22) Solve(b Vec2) Vec2 {
	if m.toMgl().Det() == 0.0 {
		return Vec2{}
	}
	return Vec2FromMgl(m.toMgl().Inv().Mul2x1(b.ToMgl()))
}

/// Rotation
type Rot struct {
	/// Sine and cosine
	S, C float64
}

func MakeRot() Rot {
	return Rot{S: 0.0, C: 1.0}
}

/// Initialize from an angle in radians
func MakeRotFromAngle(angle float64) Rot {
	return Rot{S: math.Sin(angle), C: math.Cos(angle)}
}

func (r *Rot) Set(angle float64) {
	r.S = math.Sin(angle)
	r.C = math.Cos(angle)
}

func (r *Rot) SetIdentity() {
	r.S = 0.0
	r.C = 1.0
}

func (r Rot) GetAngle() float64 {
	return math.Atan2(r.S, r.C)
}

func (r Rot) GetXAxis() Vec2 {
	return Vec2{X: r.C, Y: r.S}
}

func (r Rot) GetYAxis() Vec2 {
	return Vec2{X: -r.S, Y: r.C}
}

/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
type Transform struct {
	P Vec2
	Q Rot
}

func MakeTransform() Transform {
	return Transform{Q: MakeRot()}
}

func MakeTransformByPositionAndAngle(position Vec2, angle float64) Transform {
	return Transform{P: position, Q: MakeRotFromAngle(angle)}
}

func (t *Transform) SetIdentity() {
	t.P.SetZero()
	t.Q.SetIdentity()
}

func (t *Transform) Set(position Vec2, angle float64) {
	t.P = position
	t.Q.Set(angle)
}

/// This describes the motion of a body/shape for TOI computation.
/// Shapes are defined with respect to the body origin, which may
/// not coincide with the center of mass. However, to support dynamics
/// we must interpolate the center of mass position.
type Sweep struct {
	LocalCenter Vec2    ///< local center of mass position
	C0, C       Vec2    ///< center world positions
	A0, A       float64 ///< world angles

	/// Fraction of the current time step in the range [0,1]
	/// c0 and a0 are the positions at alpha0.
	Alpha0 float64
}

/// Get the interpolated transform at a specific time.
/// beta is a factor in [0,1], where 0 indicates alpha0.
func (sweep Sweep) GetTransform(beta float64) Transform {
	xf := MakeTransform()
	xf.P = Vec2Add(Vec2MulScalar(1.0-beta, sweep.C0), Vec2MulScalar(beta, sweep.C))
	angle := (1.0-beta)*sweep.A0 + beta*sweep.A
	xf.Q.Set(angle)

	// Shift to origin
	xf.P.SubInPlace(RotVec2Mul(xf.Q, sweep.LocalCenter))
	return xf
}

/// Advance the sweep forward, yielding a new initial state.
func (sweep *Sweep) Advance(alpha float64) {
	Assert(sweep.Alpha0 < 1.0)
	beta := (alpha - sweep.Alpha0) / (1.0 - sweep.Alpha0)
	sweep.C0.AddInPlace(Vec2MulScalar(beta, Vec2Sub(sweep.C, sweep.C0)))
	sweep.A0 += beta * (sweep.A - sweep.A0)
	sweep.Alpha0 = alpha
}

/// Normalize the angles.
func (sweep *Sweep) Normalize() {
	twoPi := 2.0 * math.Pi
	d := twoPi * math.Floor(sweep.A0/twoPi)
	sweep.A0 -= d
	sweep.A -= d
}

func Vec2Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

/// Perform the cross product on two vectors. In 2D this produces a scalar.
func Vec2Cross(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

/// Perform the cross product on a vector and a scalar. In 2D this produces
/// a vector.
func Vec2CrossVectorScalar(a Vec2, s float64) Vec2 {
	return Vec2{X: s * a.Y, Y: -s * a.X}
}

func Vec2CrossScalarVector(s float64, a Vec2) Vec2 {
	return Vec2{X: -s * a.Y, Y: s * a.X}
}

/// Multiply a matrix times a vector.
func Vec2Mat22Mul(A Mat22, v Vec2) Vec2 {
	return Vec2FromMgl(A.toMgl().Mul2x1(v.ToMgl()))
}

func Vec2Add(a, b Vec2) Vec2 {
	return Vec2{X: a.X + b.X, Y: a.Y + b.Y}
}

func Vec2Sub(a, b Vec2) Vec2 {
	return Vec2{X: a.X - b.X, Y: a.Y - b.Y}
}

func Vec2MulScalar(s float64, a Vec2) Vec2 {
	return Vec2{X: s * a.X, Y: s * a.Y}
}

func Vec2Distance(a, b Vec2) float64 {
	return Vec2Sub(a, b).Length()
}

func Vec2DistanceSquared(a, b Vec2) float64 {
	return Vec2Sub(a, b).LengthSquared()
}

func Vec2Min(a, b Vec2) Vec2 {
	return Vec2{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

func Vec2Max(a, b Vec2) Vec2 {
	return Vec2{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

/// Rotate a vector
func RotVec2Mul(q Rot, v Vec2) Vec2 {
	return Vec2{X: q.C*v.X - q.S*v.Y, Y: q.S*v.X + q.C*v.Y}
}

/// Inverse rotate a vector
func RotVec2MulT(q Rot, v Vec2) Vec2 {
	return Vec2{X: q.C*v.X + q.S*v.Y, Y: -q.S*v.X + q.C*v.Y}
}

func TransformVec2Mul(t Transform, v Vec2) Vec2 {
	return Vec2{
		X: (t.Q.C*v.X - t.Q.S*v.Y) + t.P.X,
		Y: (t.Q.S*v.X + t.Q.C*v.Y) + t.P.Y,
	}
}

func TransformVec2MulT(t Transform, v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vec2{
		X: t.Q.C*px + t.Q.S*py,
		Y: -t.Q.S*px + t.Q.C*py,
	}
}

func FloatClamp(a, low, high float64) float64 {
	return math.Max(low, math.Min(a, high))
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
