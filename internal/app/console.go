package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gamepad_motion/internal/config"
	"github.com/relabs-tech/gamepad_motion/internal/pad"
)

// RunConsole subscribes to the fused-state and raw-frame topics and prints
// every message to stdout.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	stateToken := client.Subscribe(cfg.TopicState, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s pad.State
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: state unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[STATE] q=(%6.3f %6.3f %6.3f %6.3f)  grav=(%6.3f %6.3f %6.3f)  accel=(%6.3f %6.3f %6.3f)\n",
			s.Orientation.W, s.Orientation.X, s.Orientation.Y, s.Orientation.Z,
			s.Gravity.X, s.Gravity.Y, s.Gravity.Z,
			s.Accel.X, s.Accel.Y, s.Accel.Z,
		)
	})
	stateToken.Wait()
	if stateToken.Error() != nil {
		return stateToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicState)

	rawToken := client.Subscribe(cfg.TopicRaw, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s pad.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: raw unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[RAW  ] gyro=(%8.2f %8.2f %8.2f)°/s  accel=(%6.3f %6.3f %6.3f)g  dt=%.4fs\n",
			s.Gx, s.Gy, s.Gz, s.Ax, s.Ay, s.Az, s.Dt,
		)
	})
	rawToken.Wait()
	if rawToken.Error() != nil {
		return rawToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicRaw)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
