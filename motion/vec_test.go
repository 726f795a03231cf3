package motion

import (
	"math"
	"testing"

	"go.viam.com/test"
)

const tol = 1e-9

func TestVecNormalized(t *testing.T) {
	v := Vec{3, -4, 12}.Normalized()
	test.That(t, v.Length(), test.ShouldAlmostEqual, 1, tol)

	// A zero vector cannot be normalized and must come back unchanged.
	zero := Vec{}.Normalized()
	test.That(t, zero, test.ShouldResemble, Vec{})
}

func TestVecDotCross(t *testing.T) {
	x := Vec{1, 0, 0}
	y := Vec{0, 1, 0}
	z := Vec{0, 0, 1}

	test.That(t, x.Dot(y), test.ShouldAlmostEqual, 0, tol)
	test.That(t, x.Cross(y), test.ShouldResemble, z)
	test.That(t, y.Cross(x), test.ShouldResemble, z.Negated())

	// The cross product is perpendicular to both operands.
	a := Vec{1.5, -2, 0.5}
	b := Vec{0.25, 3, -1}
	c := a.Cross(b)
	test.That(t, c.Dot(a), test.ShouldAlmostEqual, 0, tol)
	test.That(t, c.Dot(b), test.ShouldAlmostEqual, 0, tol)
}

func TestVecArithmetic(t *testing.T) {
	a := Vec{1, 2, 3}
	b := Vec{-4, 5, 0.5}
	test.That(t, a.Add(b), test.ShouldResemble, Vec{-3, 7, 3.5})
	test.That(t, a.Sub(b), test.ShouldResemble, Vec{5, -3, 2.5})
	test.That(t, a.Scale(2), test.ShouldResemble, Vec{2, 4, 6})
	test.That(t, a.Negated(), test.ShouldResemble, Vec{-1, -2, -3})
}

func TestVecRotate(t *testing.T) {
	// Rotating the x axis 90° about +Y brings it to -Z.
	q := AngleAxis(math.Pi/2, 0, 1, 0)
	r := Vec{1, 0, 0}.Rotate(q)
	test.That(t, r.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, r.Y, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, r.Z, test.ShouldAlmostEqual, -1, 1e-9)
}

func TestVecRotateRoundTrip(t *testing.T) {
	rotations := []Quat{
		AngleAxis(0.3, 1, 0, 0),
		AngleAxis(1.1, 0, 1, 0),
		AngleAxis(2.5, 1, 1, 1),
		AngleAxis(-0.7, 0.2, -3, 0.5),
		AngleAxis(3.0, -1, 2, -0.1),
	}
	v := Vec{0.8, -1.2, 2.4}
	for _, q := range rotations {
		back := v.Rotate(q).Rotate(q.Inverse())
		test.That(t, back.X, test.ShouldAlmostEqual, v.X, 1e-9)
		test.That(t, back.Y, test.ShouldAlmostEqual, v.Y, 1e-9)
		test.That(t, back.Z, test.ShouldAlmostEqual, v.Z, 1e-9)
	}
}
