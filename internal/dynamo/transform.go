package dynamo

import "math"

// Transform is a 4x4 matrix stored row-major. Points are column vectors, so
// a.Mul(b) applies b first.
type Transform [16]float64

func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns t × o.
func (t Transform) Mul(o Transform) Transform {
	var m Transform
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = t[r*4+0]*o[0*4+c] + t[r*4+1]*o[1*4+c] +
				t[r*4+2]*o[2*4+c] + t[r*4+3]*o[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a point (w=1) and performs the perspective divide.
func (t Transform) MulPoint(v Vec3) Vec3 {
	p := Vec3{
		t[0]*v.X + t[1]*v.Y + t[2]*v.Z + t[3],
		t[4]*v.X + t[5]*v.Y + t[6]*v.Z + t[7],
		t[8]*v.X + t[9]*v.Y + t[10]*v.Z + t[11],
	}
	w := t[12]*v.X + t[13]*v.Y + t[14]*v.Z + t[15]
	if w != 0 && w != 1 {
		p = p.Scale(1 / w)
	}
	return p
}

// MulDir transforms a direction (w=0); translation is ignored.
func (t Transform) MulDir(v Vec3) Vec3 {
	return Vec3{
		t[0]*v.X + t[1]*v.Y + t[2]*v.Z,
		t[4]*v.X + t[5]*v.Y + t[6]*v.Z,
		t[8]*v.X + t[9]*v.Y + t[10]*v.Z,
	}
}

func Translation(v Vec3) Transform {
	return Transform{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// Rotation builds the view rotation for an orthonormal camera basis: world
// axes are mapped so that right becomes +X, up +Y and forward -Z.
func Rotation(right, up, forward Vec3) Transform {
	return Transform{
		right.X, right.Y, right.Z, 0,
		up.X, up.Y, up.Z, 0,
		-forward.X, -forward.Y, -forward.Z, 0,
		0, 0, 0, 1,
	}
}

// Perspective mirrors gluPerspective; fovY is in degrees.
func Perspective(fovY, aspect, near, far float64) Transform {
	f := 1 / math.Tan(Deg2Rad(fovY)/2)
	return Transform{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	}
}

// Transpose is the inverse for pure rotations.
func (t Transform) Transpose() Transform {
	var m Transform
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[c*4+r] = t[r*4+c]
		}
	}
	return m
}

func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	for i := range t {
		if math.Abs(t[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

// Float32 returns the matrix in column-major order as graphics APIs expect.
func (t Transform) Float32() [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = float32(t[r*4+c])
		}
	}
	return out
}
