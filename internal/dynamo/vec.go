package dynamo

import "math"

type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero  = Vec3{}
	UnitX = Vec3{1, 0, 0}
	UnitY = Vec3{0, 1, 0}
	UnitZ = Vec3{0, 0, 1}
)

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Normalize returns the unit vector in v's direction, or the zero vector.
func (v Vec3) Normalize() Vec3 {
	if l := v.Length(); l != 0 {
		return v.Scale(1 / l)
	}
	return Vec3{}
}

// Rotate turns v about axis by deg degrees, counter-clockwise when looking
// down the axis towards the origin (Rodrigues' formula).
func (v Vec3) Rotate(axis Vec3, deg float64) Vec3 {
	k := axis.Normalize()
	s, c := math.Sincos(Deg2Rad(deg))
	return v.Scale(c).Add(k.Cross(v).Scale(s)).Add(k.Scale(k.Dot(v) * (1 - c)))
}

// IsValid reports whether every component is finite.
func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual compares component-wise within tol.
func (v Vec3) ApproxEqual(o Vec3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}
