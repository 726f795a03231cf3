// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"time"

	"github.com/relabs-tech/gamepad_motion/internal/app"
	"github.com/relabs-tech/gamepad_motion/internal/config"
)

func main() {
	configPath := flag.String("config", "./gamepad_config.txt", "path to configuration file")
	duration := flag.Duration("duration", 5*time.Second, "how long to sample the resting pad")
	flag.Parse()

	log.Println("starting gamepad-motion gyro calibration")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunCalibrate(*duration); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
