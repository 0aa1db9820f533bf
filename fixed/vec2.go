package fixed

// Vec2 is a pair of Fixed scalars. All operations are componentwise and
// total; there is no implicit conversion to or from float types anywhere
// in this package.
type Vec2 struct {
	X, Y Fixed
}

// ZeroVec is the additive identity.
var ZeroVec = Vec2{}

// NewVec2 builds a Vec2 from two Fixed values.
func NewVec2(x, y Fixed) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the componentwise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X.Add(o.X), Y: v.Y.Add(o.Y)}
}

// Sub returns the componentwise difference.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y)}
}

// Scale multiplies both components by a scalar.
func (v Vec2) Scale(s Fixed) Vec2 {
	return Vec2{X: v.X.Mul(s), Y: v.Y.Mul(s)}
}

// DivScalar divides both components by a scalar.
func (v Vec2) DivScalar(s Fixed) Vec2 {
	return Vec2{X: v.X.Div(s), Y: v.Y.Div(s)}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// DistanceSquared returns the squared distance between two points. This
// is the only distance comparison the simulation ever needs; a real
// Euclidean distance (which would require a square root) never appears
// on the simulation surface.
func DistanceSquared(a, b Vec2) Fixed {
	d := a.Sub(b)
	return d.X.Mul(d.X).Add(d.Y.Mul(d.Y))
}

// LengthSquared returns X*X + Y*Y.
func (v Vec2) LengthSquared() Fixed {
	return v.X.Mul(v.X).Add(v.Y.Mul(v.Y))
}

// newtonNormalizeIterations is documented alongside Fixed.ReciprocalSqrt:
// normalize uses the same fixed-iteration-count Newton approximation so
// the result is byte-identical across platforms.
const newtonNormalizeIterations = newtonIterations

// Normalize returns a unit-length vector in the direction of v. A
// zero-length vector normalizes to the zero vector (never divides by
// zero, never panics). The reciprocal length is computed via a fixed
// number of Newton iterations in Fixed-point, never via math.Sqrt.
func (v Vec2) Normalize() Vec2 {
	lenSq := v.LengthSquared()
	if lenSq == 0 {
		return ZeroVec
	}
	invLen := lenSq.ReciprocalSqrt()
	return v.Scale(invLen)
}
