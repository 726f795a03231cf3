package motion

import "log"

const (
	numAutoWindows          = 2
	minAutoWindowSamples    = 5
	minAutoWindowTime       = 1.0 // seconds
	maxRecalibrateThreshold = 1.5
	minDeltaClimbRate       = 0.5 // per second
	recalibrateClimbRate    = 0.5 // per second
	recalibrateDrop         = 0.25
	initialMinDelta         = 10.0
)

// SensorMinMaxWindow accumulates per-axis extremes of raw gyro and
// accelerometer samples since its last reset.
type SensorMinMaxWindow struct {
	MinGyro     Vec
	MaxGyro     Vec
	MinAccel    Vec
	MaxAccel    Vec
	NumSamples  int
	TimeSampled float64
}

// Reset empties the window. remainder pre-loads the sampled time so the two
// calibration windows keep their half-period phase offset; it may be
// negative.
func (w *SensorMinMaxWindow) Reset(remainder float64) {
	w.NumSamples = 0
	w.TimeSampled = remainder
}

func (w *SensorMinMaxWindow) AddSample(gyro, accel Vec, deltaTime float64) {
	if w.NumSamples == 0 {
		w.MaxGyro = gyro
		w.MinGyro = gyro
		w.MaxAccel = accel
		w.MinAccel = accel
		w.NumSamples = 1
		w.TimeSampled += deltaTime
		return
	}

	if gyro.X > w.MaxGyro.X {
		w.MaxGyro.X = gyro.X
	} else if gyro.X < w.MinGyro.X {
		w.MinGyro.X = gyro.X
	}
	if gyro.Y > w.MaxGyro.Y {
		w.MaxGyro.Y = gyro.Y
	} else if gyro.Y < w.MinGyro.Y {
		w.MinGyro.Y = gyro.Y
	}
	if gyro.Z > w.MaxGyro.Z {
		w.MaxGyro.Z = gyro.Z
	} else if gyro.Z < w.MinGyro.Z {
		w.MinGyro.Z = gyro.Z
	}

	if accel.X > w.MaxAccel.X {
		w.MaxAccel.X = accel.X
	} else if accel.X < w.MinAccel.X {
		w.MinAccel.X = accel.X
	}
	if accel.Y > w.MaxAccel.Y {
		w.MaxAccel.Y = accel.Y
	} else if accel.Y < w.MinAccel.Y {
		w.MinAccel.Y = accel.Y
	}
	if accel.Z > w.MaxAccel.Z {
		w.MaxAccel.Z = accel.Z
	} else if accel.Z < w.MinAccel.Z {
		w.MinAccel.Z = accel.Z
	}

	w.NumSamples++
	w.TimeSampled += deltaTime
}

// MedianGyro returns the midpoint of the observed gyro extremes.
func (w *SensorMinMaxWindow) MedianGyro() Vec {
	return w.MaxGyro.Add(w.MinGyro).Scale(0.5)
}

// Recalibration is the bias estimate produced when the calibrator decides
// the pad has been still for a full observation window.
type Recalibration struct {
	GyroOffset     Vec
	AccelMagnitude float64
}

// AutoCalibration estimates gyro bias online. Two observation windows,
// phase-offset by half the window duration, track per-axis sample extremes;
// a six-scalar noise floor climbs slowly and ratchets down whenever a window
// shows a smaller spread. When a full window sits at the noise floor on every
// axis, the window median becomes the new bias estimate.
//
// Not safe for concurrent use.
type AutoCalibration struct {
	// PerAxisTrigger compares each axis delta against its own noise floor.
	// The default compares the x-axis gyro and accel deltas against all
	// three respective floors, which keeps thresholds tuned for existing
	// controllers valid.
	PerAxisTrigger bool

	windows [numAutoWindows]SensorMinMaxWindow

	minDeltaGyro         Vec
	minDeltaAccel        Vec
	recalibrateThreshold float64
}

// NewAutoCalibration returns a calibrator with its windows phase-offset by
// half the window duration.
func NewAutoCalibration() AutoCalibration {
	a := AutoCalibration{
		minDeltaGyro:         Vec{initialMinDelta, initialMinDelta, initialMinDelta},
		minDeltaAccel:        Vec{initialMinDelta, initialMinDelta, initialMinDelta},
		recalibrateThreshold: 1,
	}
	for i := range a.windows {
		a.windows[i].TimeSampled = minAutoWindowTime * (-float64(i) / numAutoWindows)
	}
	return a
}

// AddSample feeds one raw (uncalibrated) sample to both windows. If a window
// completes and every axis sits at the noise floor, the returned
// Recalibration carries the fresh bias estimate and fired is true. The
// caller owns the bias estimate; the calibrator only reports it.
func (a *AutoCalibration) AddSample(gyro, accel Vec, deltaTime float64) (rec Recalibration, fired bool) {
	climb := minDeltaClimbRate * deltaTime
	a.minDeltaGyro = a.minDeltaGyro.Add(Vec{climb, climb, climb})
	a.minDeltaAccel = a.minDeltaAccel.Add(Vec{climb, climb, climb})

	a.recalibrateThreshold += recalibrateClimbRate * deltaTime
	if a.recalibrateThreshold > maxRecalibrateThreshold {
		a.recalibrateThreshold = maxRecalibrateThreshold
	}

	for i := range a.windows {
		w := &a.windows[i]
		other := &a.windows[(i+numAutoWindows-1)%numAutoWindows]
		w.AddSample(gyro, accel, deltaTime)
		if w.NumSamples < minAutoWindowSamples || w.TimeSampled < minAutoWindowTime {
			continue
		}

		gyroDelta := w.MaxGyro.Sub(w.MinGyro)
		accelDelta := w.MaxAccel.Sub(w.MinAccel)

		// The floor only ratchets down on fresh smaller evidence; the
		// per-sample climb above forgives isolated noisy windows.
		if gyroDelta.X < a.minDeltaGyro.X {
			a.minDeltaGyro.X = gyroDelta.X
		}
		if gyroDelta.Y < a.minDeltaGyro.Y {
			a.minDeltaGyro.Y = gyroDelta.Y
		}
		if gyroDelta.Z < a.minDeltaGyro.Z {
			a.minDeltaGyro.Z = gyroDelta.Z
		}
		if accelDelta.X < a.minDeltaAccel.X {
			a.minDeltaAccel.X = accelDelta.X
		}
		if accelDelta.Y < a.minDeltaAccel.Y {
			a.minDeltaAccel.Y = accelDelta.Y
		}
		if accelDelta.Z < a.minDeltaAccel.Z {
			a.minDeltaAccel.Z = accelDelta.Z
		}

		if a.shouldRecalibrate(gyroDelta, accelDelta) {
			log.Printf("motion: recalibrating, gyro deltas %.2f %.2f %.2f, accel deltas %.2f %.2f %.2f",
				gyroDelta.X, gyroDelta.Y, gyroDelta.Z,
				accelDelta.X, accelDelta.Y, accelDelta.Z)

			// Firing makes the next recalibration stricter for a while.
			a.recalibrateThreshold -= recalibrateDrop
			if a.recalibrateThreshold < 1 {
				a.recalibrateThreshold = 1
			}

			rec = Recalibration{
				GyroOffset:     w.MedianGyro(),
				AccelMagnitude: w.MaxAccel.Add(w.MinAccel).Length() * 0.5,
			}
			fired = true
		}

		if other.TimeSampled+deltaTime >= minAutoWindowTime {
			w.Reset(minAutoWindowTime / numAutoWindows)
		} else {
			// Keep the half-period phase offset against the other window.
			w.Reset(other.TimeSampled - minAutoWindowTime/numAutoWindows)
		}
	}

	return rec, fired
}

func (a *AutoCalibration) shouldRecalibrate(gyroDelta, accelDelta Vec) bool {
	th := a.recalibrateThreshold
	if a.PerAxisTrigger {
		return gyroDelta.X < a.minDeltaGyro.X*th &&
			gyroDelta.Y < a.minDeltaGyro.Y*th &&
			gyroDelta.Z < a.minDeltaGyro.Z*th &&
			accelDelta.X < a.minDeltaAccel.X*th &&
			accelDelta.Y < a.minDeltaAccel.Y*th &&
			accelDelta.Z < a.minDeltaAccel.Z*th
	}
	return gyroDelta.X < a.minDeltaGyro.X*th &&
		gyroDelta.X < a.minDeltaGyro.Y*th &&
		gyroDelta.X < a.minDeltaGyro.Z*th &&
		accelDelta.X < a.minDeltaAccel.X*th &&
		accelDelta.X < a.minDeltaAccel.Y*th &&
		accelDelta.X < a.minDeltaAccel.Z*th
}
