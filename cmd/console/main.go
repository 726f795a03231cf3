package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gamepad_motion/internal/app"
	"github.com/relabs-tech/gamepad_motion/internal/config"
)

func main() {
	configPath := flag.String("config", "./gamepad_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting gamepad-motion console (MQTT subscriber)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
