package motion

import "math"

const (
	gravWindowSize         = 10
	steadyGravityThreshold = 0.05 // g, per axis over the recent window
	correctionEaseInTime   = 0.25 // seconds
)

// worldDown is the gravity direction in world frame (Y-up convention).
var worldDown = Vec{Y: -1}

// gravRing holds the most recent world-frame accelerometer samples. head is
// the slot of the newest sample; count saturates at the capacity.
type gravRing struct {
	samples [gravWindowSize]Vec
	head    int
	count   int
}

func (r *gravRing) clear() {
	r.count = 0
}

func (r *gravRing) push(v Vec) {
	r.head = (r.head + gravWindowSize - 1) % gravWindowSize
	r.samples[r.head] = v
	if r.count < gravWindowSize {
		r.count++
	}
}

// bounds returns the per-axis min and max over the stored samples. Must not
// be called on an empty ring.
func (r *gravRing) bounds() (min, max Vec) {
	min = r.samples[r.head]
	max = min
	for i := 1; i < r.count; i++ {
		s := r.samples[(r.head+i)%gravWindowSize]
		if s.X > max.X {
			max.X = s.X
		}
		if s.Y > max.Y {
			max.Y = s.Y
		}
		if s.Z > max.Z {
			max.Z = s.Z
		}
		if s.X < min.X {
			min.X = s.X
		}
		if s.Y < min.Y {
			min.Y = s.Y
		}
		if s.Z < min.Z {
			min.Z = s.Z
		}
	}
	return min, max
}

// Tracker integrates angular velocity into an orientation quaternion and
// corrects gyro drift against the gravity direction inferred from recent
// accelerometer samples. When the accelerometer has been steady for a few
// frames its readings are trusted as gravity-only, and the orientation is
// nudged so that estimated and measured gravity agree; the nudge is smoothed
// so the visible orientation never snaps.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	Quaternion Quat
	Accel      Vec
	Grav       Vec

	gravWindow     gravRing
	timeCorrecting float64
}

// Reset reinitializes the orientation to identity and clears the gravity
// sample history.
func (t *Tracker) Reset() {
	t.Quaternion = Identity()
	t.Accel = Vec{}
	t.Grav = Vec{}
	t.gravWindow.clear()
}

// Update advances the orientation by one frame. gyro is calibrated angular
// velocity in degrees per second, accel the raw accelerometer reading in g,
// gravityLength the expected gravity magnitude in g, and deltaTime the
// elapsed seconds since the previous frame.
func (t *Tracker) Update(gyro, accel Vec, gravityLength, deltaTime float64) {
	angle := gyro.Length() * (math.Pi / 180) * deltaTime

	// Local (body-frame) rotation, so the increment right-multiplies the
	// running orientation.
	t.Quaternion = t.Quaternion.Mul(AngleAxis(angle, gyro.X, gyro.Y, gyro.Z))

	accelMagnitude := accel.Length()
	if accelMagnitude > 0 {
		// Gravity samples are compared in world frame.
		absoluteAccel := accel.Rotate(t.Quaternion)
		t.gravWindow.push(absoluteAccel)

		gravityMin, gravityMax := t.gravWindow.bounds()
		boxSize := gravityMax.Sub(gravityMin)
		if boxSize.X <= steadyGravityThreshold &&
			boxSize.Y <= steadyGravityThreshold &&
			boxSize.Z <= steadyGravityThreshold {
			measured := gravityMin.Add(boxSize.Scale(0.5))
			gravityDirection := measured.Normalized().Negated()
			errorAngle := math.Acos(worldDown.Dot(gravityDirection)) * 180 / math.Pi
			flattened := gravityDirection.Cross(worldDown).Normalized()

			if errorAngle > 0 {
				t.timeCorrecting += deltaTime

				// Exponential ease toward zero error, roughly
				// rate-independent of frame time.
				correction := errorAngle * (1 - math.Exp2(-deltaTime*4))
				if t.timeCorrecting < correctionEaseInTime {
					correction *= t.timeCorrecting / correctionEaseInTime
				}

				// Global (world-frame) rotation, so it pre-multiplies.
				t.Quaternion = AngleAxis(correction*math.Pi/180,
					flattened.X, flattened.Y, flattened.Z).Mul(t.Quaternion)
			} else {
				t.timeCorrecting = 0
			}
		} else {
			t.timeCorrecting = 0
		}

		// Gravity comes from the smoothed orientation rather than the noisy
		// raw sample; the raw sample minus gravity is the linear part.
		t.Grav = Vec{Y: -gravityLength}.Rotate(t.Quaternion.Inverse())
		t.Accel = accel.Add(t.Grav)
	} else {
		// No gravity information this frame.
		t.timeCorrecting = 0
		t.Accel = Vec{}
	}

	// Drift accumulates every frame, so renormalize every frame.
	t.Quaternion = t.Quaternion.Normalized()
}
