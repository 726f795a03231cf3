// Package motion estimates a gamepad's 3D orientation, gravity vector, and
// linear acceleration from raw gyroscope and accelerometer samples, while
// continuously correcting gyro bias drift. It is meant to be driven once per
// polled input frame and uses no magnetometer or external pose reference.
//
// Gyro units are degrees per second, accelerometer units are g (1 g ≈
// 9.8 m/s²), in a Y-up body-frame coordinate system.
package motion

// CalibrationMode selects how gyro bias is estimated.
type CalibrationMode int

const (
	// CalibrationManual accumulates bias samples only while continuous
	// calibration is explicitly started.
	CalibrationManual CalibrationMode = iota
	// CalibrationAuto recalibrates on its own whenever the pad looks still
	// for a full observation window.
	CalibrationAuto
)

func (m CalibrationMode) String() string {
	switch m {
	case CalibrationManual:
		return "manual"
	case CalibrationAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// GamepadMotion is the per-device fusion engine. It routes each raw sample
// through the active calibration path, debiases the gyro, and drives the
// orientation tracker. All state is in-memory and updates run in bounded,
// constant time, so ProcessMotion is safe to call from a real-time polling
// loop.
//
// A GamepadMotion must not be shared across goroutines without external
// synchronization; use one instance per device.
type GamepadMotion struct {
	gyro     Vec
	rawAccel Vec

	tracker         Tracker
	calibration     gyroCalibration
	autoCalibration AutoCalibration

	mode        CalibrationMode
	calibrating bool
}

// New returns a GamepadMotion in manual calibration mode with an identity
// orientation.
func New() *GamepadMotion {
	g := &GamepadMotion{autoCalibration: NewAutoCalibration()}
	g.Reset()
	return g
}

// Reset zeroes calibration, gyro, raw accel, and orientation state together.
func (g *GamepadMotion) Reset() {
	g.calibration.reset()
	g.gyro = Vec{}
	g.rawAccel = Vec{}
	g.tracker.Reset()
}

// ResetMotion reinitializes just the orientation tracker, leaving calibration
// untouched.
func (g *GamepadMotion) ResetMotion() {
	g.tracker.Reset()
}

// ProcessMotion consumes one raw frame: gyro in degrees per second, accel in
// g, deltaTime in seconds since the previous call. The engine performs no
// input validation; callers should reject NaN or Inf values upstream.
func (g *GamepadMotion) ProcessMotion(gyroX, gyroY, gyroZ, accelX, accelY, accelZ, deltaTime float64) {
	gyro := Vec{gyroX, gyroY, gyroZ}
	accel := Vec{accelX, accelY, accelZ}

	switch g.mode {
	case CalibrationManual:
		if g.calibrating {
			g.calibration.push(gyro, accel.Length())
		}
	case CalibrationAuto:
		if rec, fired := g.autoCalibration.AddSample(gyro, accel, deltaTime); fired {
			g.calibration.apply(rec)
		}
	}

	offset, accelMagnitude := g.calibration.offset()
	calibrated := gyro.Sub(offset)

	g.tracker.Update(calibrated, accel, accelMagnitude, deltaTime)

	g.gyro = calibrated
	g.rawAccel = accel
}

// CalibratedGyro returns the bias-corrected angular velocity of the last
// frame, in degrees per second.
func (g *GamepadMotion) CalibratedGyro() Vec {
	return g.gyro
}

// Gravity returns the gravity vector in body frame, scaled by the calibrated
// gravity magnitude.
func (g *GamepadMotion) Gravity() Vec {
	return g.tracker.Grav
}

// ProcessedAcceleration returns the last accelerometer reading with gravity
// removed.
func (g *GamepadMotion) ProcessedAcceleration() Vec {
	return g.tracker.Accel
}

// Orientation returns the current body-to-world rotation.
func (g *GamepadMotion) Orientation() Quat {
	return g.tracker.Quaternion
}

// StartContinuousCalibration begins accumulating manual calibration samples.
// The pad should be at rest while calibrating.
func (g *GamepadMotion) StartContinuousCalibration() {
	g.calibrating = true
}

// PauseContinuousCalibration stops accumulating without discarding the bias
// estimate.
func (g *GamepadMotion) PauseContinuousCalibration() {
	g.calibrating = false
}

// ResetContinuousCalibration discards the accumulated bias estimate.
func (g *GamepadMotion) ResetContinuousCalibration() {
	g.calibration.reset()
}

// CalibrationOffset returns the current gyro bias estimate in degrees per
// second.
func (g *GamepadMotion) CalibrationOffset() Vec {
	offset, _ := g.calibration.offset()
	return offset
}

// SetCalibrationOffset installs an externally supplied bias estimate. weight
// acts as an effective sample count: subsequent manual samples blend against
// the override proportionally to it.
func (g *GamepadMotion) SetCalibrationOffset(offset Vec, weight int) {
	g.calibration.override(offset, weight)
}

// CalibrationMode reports the active calibration mode.
func (g *GamepadMotion) CalibrationMode() CalibrationMode {
	return g.mode
}

// SetCalibrationMode switches between manual and adaptive calibration. The
// switch takes effect on the next processed frame.
func (g *GamepadMotion) SetCalibrationMode(mode CalibrationMode) {
	g.mode = mode
}

// SetAutoCalibrationPerAxis switches the adaptive calibrator's recalibration
// trigger to compare each axis delta against its own noise floor instead of
// the legacy x-delta comparison.
func (g *GamepadMotion) SetAutoCalibrationPerAxis(perAxis bool) {
	g.autoCalibration.PerAxisTrigger = perAxis
}
