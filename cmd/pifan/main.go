package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pifan/internal/config"
)

func main() {
	var configPath string
	var once bool
	flag.StringVar(&configPath, "config", "", "Path to YAML config (built-in defaults when empty)")
	flag.BoolVar(&once, "once", false, "Run a single control iteration and exit")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		cfg = loaded
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, once, os.Stdout); err != nil {
		log.Fatalf("pifan: %v", err)
	}
}
