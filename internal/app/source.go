package app

import (
	"fmt"

	"github.com/relabs-tech/gamepad_motion/internal/config"
	"github.com/relabs-tech/gamepad_motion/internal/pad"
	"github.com/relabs-tech/gamepad_motion/internal/sensors"
)

// openSource builds the sample source selected by PAD_SOURCE.
func openSource(cfg *config.Config) (pad.Source, func() error, error) {
	nominalDt := float64(cfg.SampleInterval) / 1000.0

	switch cfg.PadSource {
	case "replay":
		src, err := pad.NewReplaySource(cfg.ReplayPath, nominalDt)
		if err != nil {
			return nil, nil, fmt.Errorf("open replay source: %w", err)
		}
		return src, src.Close, nil
	case "serial":
		src, err := pad.NewSerialSource(cfg.SerialPort, cfg.SerialBaud, nominalDt)
		if err != nil {
			return nil, nil, fmt.Errorf("open serial source: %w", err)
		}
		return src, src.Close, nil
	case "spi":
		src, err := sensors.NewIMUSource()
		if err != nil {
			return nil, nil, fmt.Errorf("open SPI IMU source: %w", err)
		}
		return src, src.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown pad source %q", cfg.PadSource)
	}
}
