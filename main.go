package main

import (
	"flag"
	"log"

	"hmda-lens/app"
	"hmda-lens/config"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults to $CONFIG_FILE or ./config.yaml)")
	flag.Parse()

	// Load config from YAML, .env, and environment
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// Create and start app
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal(err)
	}
}
