package motion

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestQuatNormalizedUnitLength(t *testing.T) {
	quats := []Quat{
		AngleAxis(0.5, 1, 0, 0),
		AngleAxis(1.7, 0, 2, 5),
		AngleAxis(-2.1, 1, 1, 0),
		{W: 0.5, X: 0.1, Y: 0.2, Z: 0.3},
	}
	for _, q := range quats {
		n := q.Normalized()
		test.That(t, n.Length(), test.ShouldAlmostEqual, 1, tol)

		// Normalizing a normalized quaternion changes nothing.
		nn := n.Normalized()
		test.That(t, nn.W, test.ShouldAlmostEqual, n.W, tol)
		test.That(t, nn.X, test.ShouldAlmostEqual, n.X, tol)
		test.That(t, nn.Y, test.ShouldAlmostEqual, n.Y, tol)
		test.That(t, nn.Z, test.ShouldAlmostEqual, n.Z, tol)
	}
}

func TestQuatNormalizedDegenerate(t *testing.T) {
	// |W| >= 1 leaves no room for a vector part.
	test.That(t, Quat{W: 1, X: 0.3, Y: 0, Z: 0}.Normalized(), test.ShouldResemble, Identity())
	test.That(t, Quat{W: 2, X: 1, Y: 1, Z: 1}.Normalized(), test.ShouldResemble, Identity())
	// A zero vector part cannot be rescaled.
	test.That(t, Quat{W: 0.5}.Normalized(), test.ShouldResemble, Identity())
	test.That(t, Quat{}.Normalized(), test.ShouldResemble, Identity())
}

func TestQuatMulAssociative(t *testing.T) {
	q1 := AngleAxis(0.4, 1, 0, 0)
	q2 := AngleAxis(1.2, 0, 1, 0)
	q3 := AngleAxis(-0.9, 0, 0, 1)

	left := q1.Mul(q2).Mul(q3)
	right := q1.Mul(q2.Mul(q3))
	test.That(t, left.W, test.ShouldAlmostEqual, right.W, tol)
	test.That(t, left.X, test.ShouldAlmostEqual, right.X, tol)
	test.That(t, left.Y, test.ShouldAlmostEqual, right.Y, tol)
	test.That(t, left.Z, test.ShouldAlmostEqual, right.Z, tol)
}

func TestQuatMulNotCommutative(t *testing.T) {
	q1 := AngleAxis(math.Pi/2, 1, 0, 0)
	q2 := AngleAxis(math.Pi/2, 0, 1, 0)

	ab := q1.Mul(q2)
	ba := q2.Mul(q1)
	diff := math.Abs(ab.X-ba.X) + math.Abs(ab.Y-ba.Y) + math.Abs(ab.Z-ba.Z)
	test.That(t, diff, test.ShouldBeGreaterThan, 1e-3)
}

func TestQuatInverseUndoesRotation(t *testing.T) {
	q := AngleAxis(1.3, 2, -1, 0.5)
	r := q.Mul(q.Inverse())
	test.That(t, r.W, test.ShouldAlmostEqual, 1, tol)
	test.That(t, r.X, test.ShouldAlmostEqual, 0, tol)
	test.That(t, r.Y, test.ShouldAlmostEqual, 0, tol)
	test.That(t, r.Z, test.ShouldAlmostEqual, 0, tol)
}

func TestAngleAxisUnnormalizedAxis(t *testing.T) {
	// The axis does not need to be unit length.
	a := AngleAxis(0.8, 0, 1, 0)
	b := AngleAxis(0.8, 0, 10, 0)
	test.That(t, b.W, test.ShouldAlmostEqual, a.W, tol)
	test.That(t, b.X, test.ShouldAlmostEqual, a.X, tol)
	test.That(t, b.Y, test.ShouldAlmostEqual, a.Y, tol)
	test.That(t, b.Z, test.ShouldAlmostEqual, a.Z, tol)
}
