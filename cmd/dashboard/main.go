package main

import (
	"log"

	"github.com/nabdaotp/dashboard/internal/dashboard/app"
)

func main() {
	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize dashboard: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("dashboard error: %v", err)
	}
}
