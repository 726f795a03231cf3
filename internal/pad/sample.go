package pad

import (
	"math"

	"github.com/relabs-tech/gamepad_motion/motion"
)

// Sample is a single raw motion frame from a gamepad IMU.
type Sample struct {
	Gx float64 `json:"gx"` // gyro, °/s
	Gy float64 `json:"gy"`
	Gz float64 `json:"gz"`

	Ax float64 `json:"ax"` // accel, g
	Ay float64 `json:"ay"`
	Az float64 `json:"az"`

	Dt float64 `json:"dt"` // seconds since the previous frame
}

// Valid reports whether every field is finite and Dt is positive. The fusion
// engine performs no input validation of its own, so sources must reject bad
// frames before they reach it.
func (s Sample) Valid() bool {
	for _, f := range [...]float64{s.Gx, s.Gy, s.Gz, s.Ax, s.Ay, s.Az, s.Dt} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return s.Dt > 0
}

// Source is anything that can provide motion samples over time: a replay
// log, a serial-attached pad, or a directly wired IMU.
type Source interface {
	Next() (Sample, error)
}

// State is a snapshot of the fused motion state, suitable for JSON and MQTT.
type State struct {
	Orientation motion.Quat `json:"orientation"`
	Gravity     motion.Vec  `json:"gravity"`
	Accel       motion.Vec  `json:"accel"`
	Gyro        motion.Vec  `json:"gyro"`
}

// StateOf reads the engine's current outputs into a State.
func StateOf(g *motion.GamepadMotion) State {
	return State{
		Orientation: g.Orientation(),
		Gravity:     g.Gravity(),
		Accel:       g.ProcessedAcceleration(),
		Gyro:        g.CalibratedGyro(),
	}
}
