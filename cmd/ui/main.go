package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"gopenguins/internal/config"
	"gopenguins/internal/container"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal("Failed to create container:", err)
	}
	if err := c.Init(context.Background()); err != nil {
		log.Fatal("Failed to load dataset:", err)
	}

	app, err := c.UI()
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Printf("Starting penguin dashboard on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
