package motion

import "math"

// Vec is a 3D vector. Depending on context it holds a body-frame
// (sensor-relative) or world-frame (gravity-aligned) quantity; the frame is a
// caller convention, not encoded in the type. The coordinate system is Y-up,
// following the convention of PlayStation-style motion sensors.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s, v.Z * s}
}

// Div divides each component by s. Division by zero follows float64
// semantics and yields infinities.
func (v Vec) Div(s float64) Vec {
	return Vec{v.X / s, v.Y / s, v.Z / s}
}

func (v Vec) Negated() Vec {
	return Vec{-v.X, -v.Y, -v.Z}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec) Cross(o Vec) Vec {
	return Vec{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns v scaled to unit length. A zero vector is returned
// unchanged rather than producing NaNs.
func (v Vec) Normalized() Vec {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.Scale(1 / length)
}

// Rotate rotates v by q via the quaternion sandwich q * v * q⁻¹.
func (v Vec) Rotate(q Quat) Vec {
	r := q.Mul(Quat{W: 0, X: v.X, Y: v.Y, Z: v.Z}).Mul(q.Inverse())
	return Vec{r.X, r.Y, r.Z}
}
