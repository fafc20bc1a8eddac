//go:build unix

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"airhockey/internal/config"
	"airhockey/internal/lobby"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON or YAML config file")
	port := flag.Int("port", 0, "listen port, overrides the config")
	flag.Parse()

	cfg := config.Load(*configPath)
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := config.NewLogger(os.Stderr, cfg.Log)

	fmt.Println("Starting air hockey server...")
	srv, err := lobby.NewServer(cfg, logger)
	if err != nil {
		log.Fatalf("could not start server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
	fmt.Println("Server stopped")
}
