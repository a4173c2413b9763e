package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/minhduc152001/tik-live-cms/internal/config"
	"github.com/minhduc152001/tik-live-cms/internal/hub"
	"github.com/minhduc152001/tik-live-cms/internal/mockfeed"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	closeEvery := flag.Int("close-every", -1, "Drop every room each N ticks (0 disables)")
	malformedEvery := flag.Int("malformed-every", -1, "Send a malformed frame each N ticks (0 disables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Mock.Port = *port
	}
	if *closeEvery >= 0 {
		cfg.Mock.CloseEvery = *closeEvery
	}
	if *malformedEvery >= 0 {
		cfg.Mock.MalformedEvery = *malformedEvery
	}

	h := hub.New(cfg.Mock.MaxConnections)
	server := hub.NewServer(h, cfg.Mock.AllowedOrigins, cfg.Mock.Token)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := mockfeed.NewGenerator(h, mockfeed.Options{
		Interval:       cfg.Mock.Interval,
		CloseEvery:     cfg.Mock.CloseEvery,
		MalformedEvery: cfg.Mock.MalformedEvery,
	})
	gen.Start(ctx)
	log.Printf("Mock feed every %s (close_every=%d malformed_every=%d)",
		cfg.Mock.Interval, cfg.Mock.CloseEvery, cfg.Mock.MalformedEvery)

	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
		os.Exit(0)
	}()

	if err := hub.ListenAndServe(cfg.Mock.Host, cfg.Mock.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
