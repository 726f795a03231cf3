package app

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/relabs-tech/gamepad_motion/internal/config"
	"github.com/relabs-tech/gamepad_motion/internal/pad"
	"github.com/relabs-tech/gamepad_motion/motion"
)

// RunCalibrate collects samples from the configured source while the pad sits
// still, computes the gyro bias, and writes the result to the calibration
// file. Duration is how long to sample for.
func RunCalibrate(duration time.Duration) error {
	cfg := config.Get()

	if cfg.CalibrationFile == "" {
		return fmt.Errorf("CALIBRATION_FILE is required for calibration")
	}

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	engine := motion.New()
	engine.SetCalibrationMode(motion.CalibrationManual)
	engine.StartContinuousCalibration()

	log.Printf("calibrate: keep the pad still, sampling for %s", duration)

	samples := 0
	var elapsed float64
	for elapsed < duration.Seconds() {
		sample, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("calibrate: source error: %v", err)
			continue
		}
		if !sample.Valid() {
			continue
		}

		engine.ProcessMotion(sample.Gx, sample.Gy, sample.Gz,
			sample.Ax, sample.Ay, sample.Az, sample.Dt)
		samples++
		elapsed += sample.Dt
	}

	engine.PauseContinuousCalibration()

	if samples == 0 {
		return fmt.Errorf("no valid samples collected")
	}

	offset := engine.CalibrationOffset()
	cal := pad.Calibration{
		Version:     1,
		Timestamp:   time.Now(),
		GyroOffsetX: offset.X,
		GyroOffsetY: offset.Y,
		GyroOffsetZ: offset.Z,
		Weight:      samples,
		Samples:     samples,
	}

	if err := cal.Save(cfg.CalibrationFile); err != nil {
		return err
	}

	log.Printf("calibrate: done, %d samples over %.1fs, offset=(%.4f, %.4f, %.4f)°/s, saved to %s",
		samples, elapsed, offset.X, offset.Y, offset.Z, cfg.CalibrationFile)
	return nil
}
