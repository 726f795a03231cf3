package pad

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/relabs-tech/gamepad_motion/motion"
)

// Calibration is the persisted result of a manual calibration run, loaded by
// the producer at startup and applied through SetCalibrationOffset.
type Calibration struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	GyroOffsetX float64 `json:"gyro_offset_x"`
	GyroOffsetY float64 `json:"gyro_offset_y"`
	GyroOffsetZ float64 `json:"gyro_offset_z"`

	// Weight is the effective sample count the offset carries when applied;
	// later manual samples blend against it proportionally.
	Weight int `json:"weight"`

	// Samples is how many frames contributed to this calibration run.
	Samples int `json:"samples"`
}

// Offset returns the stored gyro bias as a vector.
func (c Calibration) Offset() motion.Vec {
	return motion.Vec{X: c.GyroOffsetX, Y: c.GyroOffsetY, Z: c.GyroOffsetZ}
}

// LoadCalibration reads a calibration file written by the calibrate tool.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Calibration{}, fmt.Errorf("read calibration file: %w", err)
	}
	var c Calibration
	if err := json.Unmarshal(data, &c); err != nil {
		return Calibration{}, fmt.Errorf("parse calibration file: %w", err)
	}
	return c, nil
}

// Save writes the calibration as indented JSON.
func (c Calibration) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal calibration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write calibration file: %w", err)
	}
	return nil
}
