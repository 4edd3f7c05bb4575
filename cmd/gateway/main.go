package main

import (
	"flag"
	"log"
	"os"

	"BankBrain/internal/di"
	"BankBrain/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "optional config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if cfg.Service == "" {
		cfg.Service = "a2a-gateway"
	}

	app, err := di.InitializeGateway(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
