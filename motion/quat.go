package motion

import "math"

// Quat is a unit quaternion representing the rotation from body frame to
// world frame. The zero value is not a valid rotation; use Identity or
// AngleAxis.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity returns the no-rotation quaternion.
func Identity() Quat {
	return Quat{W: 1}
}

// AngleAxis builds the quaternion rotating by angle (radians) about the given
// axis. The axis does not need to be pre-normalized; the vector part is
// rescaled to match the half-angle cosine in W.
func AngleAxis(angle, x, y, z float64) Quat {
	q := Quat{W: math.Cos(angle * 0.5), X: x, Y: y, Z: z}
	return q.Normalized()
}

// Mul returns the Hamilton product q * r.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Inverse returns the conjugate, which inverts the rotation for unit
// quaternions.
func (q Quat) Inverse() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Length returns the 4-norm of q.
func (q Quat) Length() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalized rescales the vector part so its length matches sqrt(1 - w²),
// assuming W is already within [-1, 1]. If the target length or the current
// vector-part length is not positive the quaternion has degenerated beyond
// recovery and collapses to identity.
func (q Quat) Normalized() Quat {
	length := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	targetLength := 1 - q.W*q.W
	if targetLength <= 0 || length <= 0 {
		return Identity()
	}
	fix := math.Sqrt(targetLength) / length
	return Quat{W: q.W, X: q.X * fix, Y: q.Y * fix, Z: q.Z * fix}
}
