// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gamepad_motion/internal/config"
	"github.com/relabs-tech/gamepad_motion/internal/pad"
	"github.com/relabs-tech/gamepad_motion/motion"
)

// RunProducer reads raw motion samples from the configured source, runs them
// through the fusion engine, and publishes both the fused state and the raw
// frames over MQTT.
func RunProducer() error {
	log.Println("starting gamepad-motion producer")

	cfg := config.Get()

	src, closeSrc, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	engine := motion.New()
	switch cfg.CalibrationMode {
	case "auto":
		engine.SetCalibrationMode(motion.CalibrationAuto)
		engine.SetAutoCalibrationPerAxis(cfg.AutoCalPerAxis)
		log.Printf("producer: auto calibration enabled (per-axis=%v)", cfg.AutoCalPerAxis)
	case "manual":
		engine.SetCalibrationMode(motion.CalibrationManual)
		if cfg.CalibrationFile != "" {
			cal, err := pad.LoadCalibration(cfg.CalibrationFile)
			if err != nil {
				log.Printf("producer: WARNING: %v, starting uncalibrated", err)
			} else {
				engine.SetCalibrationOffset(cal.Offset(), cal.Weight)
				log.Printf("producer: loaded calibration from %s (offset %+v, weight %d)",
					cfg.CalibrationFile, cal.Offset(), cal.Weight)
			}
		}
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("producer: connected to MQTT, starting publish loop")

	frames := 0
	dropped := 0
	lastLog := time.Now()

	for {
		sample, err := src.Next()
		if errors.Is(err, io.EOF) {
			log.Printf("producer: source exhausted after %d frames", frames)
			return nil
		}
		if err != nil {
			log.Printf("producer: source error: %v", err)
			continue
		}
		if !sample.Valid() {
			dropped++
			continue
		}

		engine.ProcessMotion(sample.Gx, sample.Gy, sample.Gz,
			sample.Ax, sample.Ay, sample.Az, sample.Dt)
		frames++

		state := pad.StateOf(engine)

		if payload, err := json.Marshal(state); err != nil {
			log.Printf("producer: state marshal error: %v", err)
		} else {
			if token := client.Publish(cfg.TopicState, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("producer: MQTT publish error (state): %v", token.Error())
				continue
			}
		}

		if payload, err := json.Marshal(sample); err != nil {
			log.Printf("producer: raw marshal error: %v", err)
		} else {
			if token := client.Publish(cfg.TopicRaw, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("producer: MQTT publish error (raw): %v", token.Error())
				continue
			}
		}

		if time.Since(lastLog) >= 5*time.Second {
			q := state.Orientation
			log.Printf("producer: %d frames (%d dropped) | orient w=%.3f x=%.3f y=%.3f z=%.3f | grav=(%.3f, %.3f, %.3f)",
				frames, dropped, q.W, q.X, q.Y, q.Z,
				state.Gravity.X, state.Gravity.Y, state.Gravity.Z)
			lastLog = time.Now()
		}
	}
}
